package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alejandrodnm/totalsbot/internal/backtest"
	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// maxMismatchRows limita la tabla de discrepancias del backtest.
const maxMismatchRows = 25

// Console implementa ports.Notifier escribiendo a un io.Writer.
type Console struct {
	out   io.Writer
	table bool // true: tabla completa; false: una línea por evento
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyDecision imprime una decisión disparada con sus razones y el driver principal.
func (c *Console) NotifyDecision(_ context.Context, dec domain.DecisionOutput, attr domain.Attribution) error {
	ts := dec.Timestamp.Format("15:04:05")

	if !c.table {
		fmt.Fprintf(c.out, "[%s] %s %s fair=%.1f mkt=%.1f z=%+.2f (thr %.2f) driver=%s %s\n",
			ts, dec.GameID, dec.Side, dec.FairValue, dec.MarketTotal,
			dec.EdgeZ, dec.Threshold, attr.TopDriver, joinReasons(dec.Reasons))
		return nil
	}

	fmt.Fprintf(c.out, "\n[%s] %s → %s (%s)\n", ts, dec.GameID, dec.Side, dec.Status)
	fmt.Fprintf(c.out, "  fair %.2f vs market %.2f | z %+.2f (threshold %.2f)\n",
		dec.FairValue, dec.MarketTotal, dec.EdgeZ, dec.Threshold)
	if len(dec.Reasons) > 0 {
		fmt.Fprintf(c.out, "  reasons: %s\n", joinReasons(dec.Reasons))
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Driver", "Points", "Top")
	for _, imp := range attr.Impacts {
		top := ""
		if imp.Driver == attr.TopDriver {
			top = "*"
		}
		table.Append(imp.Driver.String(), fmt.Sprintf("%+.2f", imp.Points), top)
	}
	table.Render()
	return nil
}

// NotifySanity imprime errores y warnings del guard.
func (c *Console) NotifySanity(_ context.Context, gameID string, res domain.SanityResult) error {
	if len(res.Errors) == 0 && len(res.Warnings) == 0 {
		return nil
	}
	if res.ShouldFreeze {
		fmt.Fprintf(c.out, "⚠ %s frozen until %s: %s\n",
			gameID, res.FreezeUntil.Format("15:04:05"), strings.Join(res.Errors, "; "))
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(c.out, "  %s warning: %s\n", gameID, w)
	}
	return nil
}

// PrintSnapshot imprime todos los valores intermedios de un snapshot.
func (c *Console) PrintSnapshot(out domain.ControlTableOutput) {
	fmt.Fprintf(c.out, "\n=== CONTROL TABLE %s @ %s ===\n", out.GameID, out.Timestamp.Format("15:04:05"))

	table := tablewriter.NewWriter(c.out)
	table.Header("Field", "Value")
	for _, f := range out.Fields() {
		table.Append(f.Name, fmt.Sprintf("%.4f", f.Value))
	}
	table.Render()
}

// PrintBacktest imprime el resumen de un replay: determinismo, discrepancias
// y una línea temporal muestreada cada `every` ticks (los disparos siempre salen).
func (c *Console) PrintBacktest(r backtest.Report, every int) {
	if every <= 0 {
		every = 1
	}

	verdict := "DETERMINISTIC"
	if !r.Deterministic {
		verdict = fmt.Sprintf("MISMATCH (%d fields)", len(r.Mismatches))
	}
	fmt.Fprintf(c.out, "\n=== BACKTEST %s | %d ticks, %d compared, %d fired, %d frozen → %s ===\n",
		r.GameID, r.Ticks, r.Compared, r.Fired, r.Frozen, verdict)

	if len(r.Timeline) > 0 {
		table := tablewriter.NewWriter(c.out)
		table.Header("#", "Time", "Elapsed", "Score", "Live", "Fair", "Z", "Side", "Status", "Driver")
		for i, e := range r.Timeline {
			if i%every != 0 && !e.Fired && i != len(r.Timeline)-1 {
				continue
			}
			table.Append(
				fmt.Sprintf("%d", i),
				e.Timestamp.Format("15:04:05"),
				fmt.Sprintf("%.1f", e.ElapsedMin),
				fmt.Sprintf("%.0f", e.Score),
				fmt.Sprintf("%.1f", e.LiveTotal),
				fmt.Sprintf("%.1f", e.FairValue),
				fmt.Sprintf("%+.2f", e.EdgeZ),
				e.Side.String(),
				e.Status.String(),
				e.TopDriver.String(),
			)
		}
		table.Render()
	}

	if len(r.Mismatches) == 0 {
		return
	}

	fmt.Fprintln(c.out, "\n  Mismatches:")
	table := tablewriter.NewWriter(c.out)
	table.Header("Tick", "Field", "Expected", "Actual", "Delta")
	for i, m := range r.Mismatches {
		if i >= maxMismatchRows {
			break
		}
		table.Append(
			fmt.Sprintf("%d", m.TickIndex),
			m.Field,
			fmt.Sprintf("%.4f", m.Expected),
			fmt.Sprintf("%.4f", m.Actual),
			fmt.Sprintf("%.4f", m.Delta),
		)
	}
	table.Render()
	if len(r.Mismatches) > maxMismatchRows {
		fmt.Fprintf(c.out, "  ... %d more\n", len(r.Mismatches)-maxMismatchRows)
	}
}

func joinReasons(reasons []domain.ReasonCode) string {
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = r.String()
	}
	return strings.Join(parts, ",")
}

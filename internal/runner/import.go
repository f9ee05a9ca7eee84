package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/alejandrodnm/totalsbot/internal/domain"
	"github.com/alejandrodnm/totalsbot/internal/ports"
)

const (
	importBatchSize = 500
	maxLineBytes    = 1 << 20
)

// ImportJSONL lee ticks en formato JSON Lines (un ControlTableInput por línea)
// y los guarda por lotes. Las líneas vacías se ignoran. Devuelve cuántos
// ticks se leyeron.
func ImportJSONL(ctx context.Context, r io.Reader, store ports.TickStore) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	batch := make([]domain.ControlTableInput, 0, importBatchSize)
	total, line := 0, 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := store.SaveTicks(ctx, batch); err != nil {
			return fmt.Errorf("runner.ImportJSONL: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var tick domain.ControlTableInput
		if err := json.Unmarshal([]byte(text), &tick); err != nil {
			return total, fmt.Errorf("runner.ImportJSONL: line %d: %w", line, err)
		}
		if tick.GameID == "" || tick.Timestamp.IsZero() {
			return total, fmt.Errorf("runner.ImportJSONL: line %d: missing game_id or ts", line)
		}

		batch = append(batch, tick)
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return total, fmt.Errorf("runner.ImportJSONL: read: %w", err)
	}
	if err := flush(); err != nil {
		return total, err
	}

	slog.Info("ticks imported", "count", total, "lines", line)
	return total, nil
}

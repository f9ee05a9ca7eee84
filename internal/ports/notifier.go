package ports

import (
	"context"

	"github.com/alejandrodnm/totalsbot/internal/domain"
)

// Notifier presenta decisiones y veredictos de sanity. Recibe datos planos;
// el formato es cosa de cada implementación.
type Notifier interface {
	// NotifyDecision se llama para cada decisión disparada.
	NotifyDecision(ctx context.Context, dec domain.DecisionOutput, attr domain.Attribution) error

	// NotifySanity se llama cuando un tick tiene errores o warnings.
	NotifySanity(ctx context.Context, gameID string, res domain.SanityResult) error
}

package notify

import "context"

// Actions carried by change events.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// Entities carried by change events.
const (
	EntityBudget      = "budget"
	EntityTransaction = "transaction"
)

// Notifier receives a change event after every successful mutation. Consumers
// are expected to refresh any view of the named entity and its dependents:
// a deleted budget implies its transactions are gone as well.
type Notifier interface {
	EntityChanged(ctx context.Context, event ChangeEvent)
}

// NoopNotifier discards all events. Used when no external consumer is configured.
type NoopNotifier struct{}

func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

func (n *NoopNotifier) EntityChanged(_ context.Context, _ ChangeEvent) {}

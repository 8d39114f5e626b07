package eventsourcing

// Aggregate is implemented by every event-sourced aggregate in this module.
//
// The unexported methods are provided by embedding Root, so an aggregate can
// only satisfy this interface by embedding it - the bookkeeping (version,
// pending-changes buffer) can not be reimplemented ad hoc.
type Aggregate interface {
	// AggregateID returns the stable identity of the aggregate.
	AggregateID() string

	// Version returns the count of applied events, historic and new.
	// It is used as the expected version for optimistic concurrency.
	Version() int

	// PendingChanges returns the events produced by decisions since the last
	// save, in the order they must be persisted.
	PendingChanges() Events

	// MarkChangesAsCommitted clears the pending-changes buffer.
	// Called by a repository after a successful append.
	MarkChangesAsCommitted()

	// Evolve folds a single event into the aggregate state.
	// It is a pure state transition with no validation, used both for
	// replaying historic events and for folding freshly decided ones.
	Evolve(event Event) error

	recordChange(event Event)
	incrementVersion()
}

// Root provides identity, version and the uncommitted-change buffer.
// It is meant to be embedded into concrete aggregates.
type Root struct {
	id      string
	version int
	changes Events
}

// NewRoot creates the bookkeeping base for an aggregate with the given identity.
// A fresh aggregate starts at version 0 with no pending changes.
func NewRoot(id string) Root {
	return Root{id: id}
}

// AggregateID returns the stable identity of the aggregate.
func (r *Root) AggregateID() string {
	return r.id
}

// Version returns the count of applied events.
func (r *Root) Version() int {
	return r.version
}

// PendingChanges returns the ordered uncommitted events.
func (r *Root) PendingChanges() Events {
	return r.changes
}

// MarkChangesAsCommitted clears the pending-changes buffer.
func (r *Root) MarkChangesAsCommitted() {
	r.changes = nil
}

func (r *Root) recordChange(event Event) {
	r.changes = append(r.changes, event)
}

func (r *Root) incrementVersion() {
	r.version++
}

// FoldNew folds freshly decided events into the aggregate state and records
// them in the pending-changes buffer, in persistence order.
//
// Only the decision path may use this - replay goes through FoldHistoric so
// that hydrating an aggregate never re-buffers already persisted events.
func FoldNew(aggregate Aggregate, events ...Event) error {
	for _, event := range events {
		if err := aggregate.Evolve(event); err != nil {
			return err
		}

		aggregate.incrementVersion()
		aggregate.recordChange(event)
	}

	return nil
}

// FoldHistoric folds already persisted events into the aggregate state
// without touching the pending-changes buffer. Used by the repository load path.
func FoldHistoric(aggregate Aggregate, events ...Event) error {
	for _, event := range events {
		if err := aggregate.Evolve(event); err != nil {
			return err
		}

		aggregate.incrementVersion()
	}

	return nil
}

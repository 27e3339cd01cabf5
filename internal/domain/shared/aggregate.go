package shared

// Aggregate is embedded by entities that record domain events.
// Events stay pending until the application service pulls them after a
// successful write and hands them to the event bus.
type Aggregate struct {
	BaseEntity
	pending []DomainEvent
}

// NewAggregate creates an aggregate with no pending events
func NewAggregate(id string) Aggregate {
	return Aggregate{BaseEntity: NewBaseEntity(id)}
}

// Record appends an event to the pending list
func (a *Aggregate) Record(event DomainEvent) {
	a.pending = append(a.pending, event)
}

// PullEvents returns the recorded events and clears the list
func (a *Aggregate) PullEvents() []DomainEvent {
	events := a.pending
	a.pending = nil
	return events
}

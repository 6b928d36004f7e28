package sim

// EventKind identifies simulation events delivered to the outer layer.
type EventKind string

const (
	EventWin          EventKind = "win"
	EventLoss         EventKind = "loss"
	EventLevelCleared EventKind = "level-cleared"
	EventPieceLanded  EventKind = "piece-landed"
	EventGraze        EventKind = "graze"
)

// Reason is the terminal reason attached to win/loss events.
type Reason string

const (
	ReasonFellOffScreen  Reason = "fell-off-screen"
	ReasonHazardContact  Reason = "hazard-contact"
	ReasonSettledOutside Reason = "rim-bounce-settled-outside-target"
	ReasonDwellSatisfied Reason = "dwell-satisfied"
	ReasonCaptureEntered Reason = "capture-zone-entered"
)

// Event is a single simulation event.
type Event struct {
	Kind   EventKind
	Reason Reason
}

// EventQueue is a FIFO drained by the outer layer once per frame.
type EventQueue struct {
	items []Event
}

// Push appends an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all pending events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

package rsvp

import "github.com/google/uuid"

// Declaration is an explicit answer of one guest for one event.
type Declaration struct {
	GuestID   uuid.UUID
	EventID   uuid.UUID
	Attending bool
}

type pairKey struct {
	guestID uuid.UUID
	eventID uuid.UUID
}

// Answer is one cell of the guest's answer grid. A nil Attending means the
// guest has not answered and the cell is never persisted.
type Answer struct {
	GuestID   uuid.UUID
	EventID   uuid.UUID
	Attending *bool
}

// Batch is the immutable set of declarations committed by one submission.
type Batch struct {
	declarations []Declaration
}

// NewBatch builds a batch. A (guest, event) pair given more than once keeps
// its first position and its last value.
func NewBatch(declarations ...Declaration) Batch {
	index := make(map[pairKey]int, len(declarations))
	out := make([]Declaration, 0, len(declarations))
	for _, d := range declarations {
		key := pairKey{guestID: d.GuestID, eventID: d.EventID}
		if i, ok := index[key]; ok {
			out[i].Attending = d.Attending
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}
	return Batch{declarations: out}
}

// BatchFromAnswers drops unanswered cells and builds a batch from the rest.
func BatchFromAnswers(answers []Answer) Batch {
	declarations := make([]Declaration, 0, len(answers))
	for _, a := range answers {
		if a.Attending == nil {
			continue
		}
		declarations = append(declarations, Declaration{
			GuestID:   a.GuestID,
			EventID:   a.EventID,
			Attending: *a.Attending,
		})
	}
	return NewBatch(declarations...)
}

// Declarations returns a copy of the batch contents.
func (b Batch) Declarations() []Declaration {
	out := make([]Declaration, len(b.declarations))
	copy(out, b.declarations)
	return out
}

func (b Batch) Len() int {
	return len(b.declarations)
}

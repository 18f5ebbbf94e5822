package library

import (
	"fmt"
	"time"

	"library-catalog/datastruct"
)

// ReservationEngine owns reservations and one FIFO waitlist per book. Every
// active reservation sits in its book's waitlist exactly once, in creation
// order; inactive ones stay in the history list only.
type ReservationEngine struct {
	reservations *datastruct.List[*Reservation]
	waitlists    map[string]*datastruct.Queue[*Reservation]
	books        BookStore
	patrons      PatronLookup
	now          func() time.Time
	ids          *sequence
}

func NewReservationEngine(books BookStore, patrons PatronLookup, now func() time.Time) *ReservationEngine {
	return &ReservationEngine{
		reservations: datastruct.NewList[*Reservation](),
		waitlists:    make(map[string]*datastruct.Queue[*Reservation]),
		books:        books,
		patrons:      patrons,
		now:          now,
		ids:          newSequence("R"),
	}
}

// Reserve puts the patron in the book's waitlist. If the patron already holds
// an active reservation on the book, that reservation is returned unchanged
// and created is false.
func (e *ReservationEngine) Reserve(bookID, patronID string) (r Reservation, created bool, err error) {
	if _, err := e.books.FindByID(bookID); err != nil {
		return Reservation{}, false, err
	}
	if !e.patrons.Contains(patronID) {
		return Reservation{}, false, notFound("patron", patronID)
	}
	if existing, ok := e.reservations.Find(func(r *Reservation) bool {
		return r.Active && r.BookID == bookID && r.PatronID == patronID
	}); ok {
		return *existing, false, nil
	}

	res := &Reservation{
		ID:              e.ids.next(),
		BookID:          bookID,
		PatronID:        patronID,
		ReservationDate: dateOf(e.now()),
		Active:          true,
	}
	e.reservations.Add(res)
	e.waitlist(bookID).Enqueue(res)
	return *res, true, nil
}

// Cancel deactivates the reservation and rebuilds its book's waitlist without
// it and without any other inactive entry.
func (e *ReservationEngine) Cancel(id string) (Reservation, error) {
	res, err := e.activeReservation(id)
	if err != nil {
		return Reservation{}, err
	}
	res.Active = false
	if q, ok := e.waitlists[res.BookID]; ok {
		e.waitlists[res.BookID] = rebuild(q, func(r *Reservation) bool {
			return r.ID != id && r.Active
		})
	}
	return *res, nil
}

// Fulfill deactivates the reservation at the head of its book's waitlist. It
// fails when the book is gone or still lent out, and with ErrNotQueueHead when
// another reservation is ahead in the waitlist.
func (e *ReservationEngine) Fulfill(id string) (Reservation, error) {
	res, err := e.activeReservation(id)
	if err != nil {
		return Reservation{}, err
	}
	book, err := e.books.FindByID(res.BookID)
	if err != nil {
		return Reservation{}, err
	}
	if !book.Available {
		return Reservation{}, fmt.Errorf("book %q: %w", book.ID, ErrUnavailable)
	}
	q := e.waitlist(res.BookID)
	head, err := q.Peek()
	if err != nil || head.ID != id {
		return Reservation{}, fmt.Errorf("reservation %q: %w", id, ErrNotQueueHead)
	}

	res.Active = false
	_, _ = q.Dequeue()
	return *res, nil
}

// Next returns the reservation at the head of the book's waitlist.
func (e *ReservationEngine) Next(bookID string) (Reservation, error) {
	q, ok := e.waitlists[bookID]
	if !ok {
		return Reservation{}, fmt.Errorf("waitlist for book %q: %w", bookID, ErrNotFound)
	}
	head, err := q.Peek()
	if err != nil {
		return Reservation{}, fmt.Errorf("waitlist for book %q: %w", bookID, ErrNotFound)
	}
	return *head, nil
}

// QueuePosition returns the 1-based position of the patron's first active
// entry in the book's waitlist, or -1 when there is none.
func (e *ReservationEngine) QueuePosition(bookID, patronID string) int {
	position := -1
	for i, r := range e.Waitlist(bookID) {
		if r.PatronID == patronID && r.Active {
			position = i + 1
			break
		}
	}
	return position
}

// Waitlist returns the book's waitlist from head to tail. The queue is drained
// and refilled in the same order.
func (e *ReservationEngine) Waitlist(bookID string) []Reservation {
	q, ok := e.waitlists[bookID]
	if !ok {
		return []Reservation{}
	}
	out := make([]Reservation, 0, q.Len())
	e.waitlists[bookID] = rebuild(q, func(r *Reservation) bool {
		out = append(out, *r)
		return true
	})
	return out
}

func (e *ReservationEngine) FindByID(id string) (Reservation, error) {
	res, ok := e.lookup(id)
	if !ok {
		return Reservation{}, notFound("reservation", id)
	}
	return *res, nil
}

// All returns every reservation ever made, active or not, in creation order.
func (e *ReservationEngine) All() []Reservation {
	return e.filter(func(*Reservation) bool { return true })
}

func (e *ReservationEngine) Active() []Reservation {
	return e.filter(func(r *Reservation) bool { return r.Active })
}

// ByPatron returns the patron's active reservations.
func (e *ReservationEngine) ByPatron(patronID string) []Reservation {
	return e.filter(func(r *Reservation) bool { return r.Active && r.PatronID == patronID })
}

// ByBook returns the book's active reservations in creation order.
func (e *ReservationEngine) ByBook(bookID string) []Reservation {
	return e.filter(func(r *Reservation) bool { return r.Active && r.BookID == bookID })
}

func (e *ReservationEngine) activeReservation(id string) (*Reservation, error) {
	res, ok := e.lookup(id)
	if !ok {
		return nil, notFound("reservation", id)
	}
	if !res.Active {
		return nil, fmt.Errorf("reservation %q: %w", id, ErrReservationInactive)
	}
	return res, nil
}

// waitlist returns the book's queue, creating it on first use.
func (e *ReservationEngine) waitlist(bookID string) *datastruct.Queue[*Reservation] {
	q, ok := e.waitlists[bookID]
	if !ok {
		q = datastruct.NewQueue[*Reservation]()
		e.waitlists[bookID] = q
	}
	return q
}

func (e *ReservationEngine) lookup(id string) (*Reservation, bool) {
	return e.reservations.Find(func(r *Reservation) bool { return r.ID == id })
}

func (e *ReservationEngine) filter(pred func(*Reservation) bool) []Reservation {
	matches := e.reservations.Filter(pred)
	out := make([]Reservation, len(matches))
	for i, r := range matches {
		out[i] = *r
	}
	return out
}

// rebuild drains q into a new queue, keeping the entries for which keep
// returns true.
func rebuild(q *datastruct.Queue[*Reservation], keep func(*Reservation) bool) *datastruct.Queue[*Reservation] {
	out := datastruct.NewQueue[*Reservation]()
	for !q.IsEmpty() {
		r, _ := q.Dequeue()
		if keep(r) {
			out.Enqueue(r)
		}
	}
	return out
}

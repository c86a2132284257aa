package bookings

import (
	"context"
	"sync"

	"github.com/courtminton/courtminton-web/internal/backend"
)

// Service is the slice of the backend client the view needs.
type Service interface {
	ListBookings(ctx context.Context, token string) ([]backend.Booking, error)
	CancelBooking(ctx context.Context, token, id string) error
}

// Groups partitions a booking list by status. Server-provided order is
// preserved within each group.
type Groups struct {
	Active    []backend.Booking `json:"active"`
	Completed []backend.Booking `json:"completed"`
	Cancelled []backend.Booking `json:"cancelled"`
}

// View holds one user's booking list: a disposable snapshot of the backend's
// state, mutated locally only to reflect confirmed cancellations and fresh
// creations.
type View struct {
	mu    sync.Mutex
	api   Service
	items []backend.Booking
}

// NewView creates an empty bookings view.
func NewView(api Service) *View {
	return &View{api: api}
}

// Load replaces the snapshot with the user's bookings from the backend.
func (v *View) Load(ctx context.Context, token string) error {
	items, err := v.api.ListBookings(ctx, token)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Append adds a freshly created booking to the snapshot.
func (v *View) Append(b backend.Booking) {
	v.mu.Lock()
	v.items = append(v.items, b)
	v.mu.Unlock()
}

// Groups returns the current snapshot partitioned by status.
func (v *View) Groups() Groups {
	v.mu.Lock()
	defer v.mu.Unlock()

	var g Groups
	for _, b := range v.items {
		switch b.Status {
		case backend.StatusCompleted:
			g.Completed = append(g.Completed, b)
		case backend.StatusCancelled:
			g.Cancelled = append(g.Cancelled, b)
		default:
			g.Active = append(g.Active, b)
		}
	}
	return g
}

// Cancel cancels one booking on the backend. On success only that booking's
// local status flips to cancelled; it is never removed from the list. On
// failure the snapshot is left untouched.
func (v *View) Cancel(ctx context.Context, token, id string) error {
	if err := v.api.CancelBooking(ctx, token, id); err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == id {
			v.items[i].Status = backend.StatusCancelled
		}
	}
	return nil
}

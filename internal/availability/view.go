package availability

import (
	"context"
	"net/http"
	"sync"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
	"github.com/courtminton/courtminton-web/internal/timeslot"
)

// ErrSuperseded reports that a newer (date, slot) selection was made while the
// request was in flight. The response is discarded, never shown.
var ErrSuperseded = apperror.New(http.StatusConflict, "availability request superseded")

// Fetcher is the slice of the backend client the view needs.
type Fetcher interface {
	AvailableCourts(ctx context.Context, date, startTime, endTime string) (*backend.Availability, error)
}

// Snapshot is the displayed court list together with the selection it was
// fetched for. It is a disposable value, never shared mutable state.
type Snapshot struct {
	Seq     uint64                      `json:"seq"`
	Date    string                      `json:"date"`
	Slot    timeslot.Slot               `json:"slot"`
	Courts  []backend.CourtAvailability `json:"courts"`
	Failed  bool                        `json:"failed,omitempty"`
	Message string                      `json:"message,omitempty"`
}

// View holds one user's availability panel. Refresh tags each request with a
// monotonically increasing sequence number and applies a response only if it
// is still the latest one issued, so a stale response can never overwrite a
// newer selection.
type View struct {
	mu       sync.Mutex
	fetcher  Fetcher
	seq      uint64
	inFlight int
	snap     Snapshot
}

// NewView creates an availability view backed by the given fetcher.
func NewView(fetcher Fetcher) *View {
	return &View{fetcher: fetcher}
}

// Refresh issues exactly one availability request for the selection and
// returns the resulting snapshot. If the request was superseded before it
// settled, the current (newer) snapshot is returned along with ErrSuperseded.
func (v *View) Refresh(ctx context.Context, date string, slot timeslot.Slot) (Snapshot, error) {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.inFlight++
	v.mu.Unlock()

	res, err := v.fetcher.AvailableCourts(ctx, date, slot.Start, slot.End)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.inFlight--

	if seq != v.seq {
		// A newer selection was requested meanwhile; drop this response.
		return v.snap, ErrSuperseded
	}

	if err != nil {
		// Never keep the previous, now-potentially-wrong list around.
		v.snap = Snapshot{
			Seq:     seq,
			Date:    date,
			Slot:    slot,
			Failed:  true,
			Message: err.Error(),
		}
		return v.snap, err
	}

	v.snap = Snapshot{
		Seq:    seq,
		Date:   date,
		Slot:   slot,
		Courts: res.Courts,
	}
	return v.snap, nil
}

// Snapshot returns the current list and whether a request is still in flight.
func (v *View) Snapshot() (Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap, v.inFlight > 0
}

// MarkBooked optimistically flips a court to unavailable after a confirmed
// booking. It only applies if the snapshot still shows the booked selection.
func (v *View) MarkBooked(courtNumber int, date string, slot timeslot.Slot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.snap.Date != date || v.snap.Slot != slot {
		return
	}
	for i := range v.snap.Courts {
		if v.snap.Courts[i].CourtNumber == courtNumber {
			v.snap.Courts[i].IsAvailable = false
		}
	}
}

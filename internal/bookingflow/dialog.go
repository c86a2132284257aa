package bookingflow

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
	"github.com/courtminton/courtminton-web/internal/session"
	"github.com/courtminton/courtminton-web/internal/timeslot"
)

// Local guard failures. They block the attempt before any backend call.
var (
	ErrLoginRequired = apperror.New(http.StatusUnauthorized, "please log in to book a court")
	ErrSlotPassed    = apperror.New(http.StatusBadRequest, "the selected time slot has already passed")
	ErrNoSelection   = apperror.New(http.StatusConflict, "no booking is being confirmed")
	ErrBusy          = apperror.New(http.StatusConflict, "a booking submission is already in progress")
)

// State of a booking dialog. Rejected-local, failed, unauthenticated and
// confirmed attempts all return control to Idle for the next attempt; the
// outcome itself is conveyed by Submit's return values.
type State int

const (
	Idle State = iota
	Confirming
	Submitting
)

func (s State) String() string {
	switch s {
	case Confirming:
		return "confirming"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Creator is the slice of the backend client the dialog needs.
type Creator interface {
	CreateBooking(ctx context.Context, token string, req backend.CreateBookingRequest) (*backend.Booking, error)
}

// Selection is the court and slot shown in the confirmation dialog.
type Selection struct {
	CourtNumber int           `json:"courtNumber"`
	Date        string        `json:"date"`
	Slot        timeslot.Slot `json:"slot"`
}

// Dialog drives one booking attempt at a time: Idle -> Confirming (Open) ->
// Submitting (Submit) -> back to Idle. At most one submission may be in
// flight; submitting again while Submitting is rejected without a network
// call, and a settled attempt needs a fresh Open before it can submit again.
type Dialog struct {
	mu      sync.Mutex
	creator Creator
	now     func() time.Time
	loc     *time.Location

	state State
	sel   Selection
}

// NewDialog creates an idle booking dialog.
func NewDialog(creator Creator) *Dialog {
	return &Dialog{
		creator: creator,
		now:     time.Now,
		loc:     time.Local,
	}
}

// Open moves the dialog to Confirming for the given selection. Opening while
// a submission is in flight is rejected.
func (d *Dialog) Open(courtNumber int, date string, slot timeslot.Slot) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Submitting {
		return ErrBusy
	}
	d.state = Confirming
	d.sel = Selection{CourtNumber: courtNumber, Date: date, Slot: slot}
	return nil
}

// Close dismisses the dialog without submitting.
func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Submitting {
		return
	}
	d.state = Idle
	d.sel = Selection{}
}

// Current returns the dialog state and the selection being confirmed.
func (d *Dialog) Current() (State, Selection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.sel
}

// Submit runs the guards and, if they pass, performs exactly one backend call
// for the confirmed selection. sess may be nil (not logged in).
func (d *Dialog) Submit(ctx context.Context, sess *session.Record) (*backend.Booking, error) {
	d.mu.Lock()

	switch d.state {
	case Submitting:
		d.mu.Unlock()
		return nil, ErrBusy
	case Idle:
		d.mu.Unlock()
		return nil, ErrNoSelection
	}

	// Guard: no session means no backend contact at all.
	if sess == nil {
		d.state = Idle
		d.sel = Selection{}
		d.mu.Unlock()
		return nil, ErrLoginRequired
	}

	// Guard: the slot's start must be strictly in the future.
	sel := d.sel
	startAt, err := sel.Slot.StartAt(sel.Date, d.loc)
	if err != nil {
		d.state = Idle
		d.sel = Selection{}
		d.mu.Unlock()
		return nil, apperror.Wrap(err, http.StatusBadRequest, "invalid booking date or time")
	}
	if !startAt.After(d.now()) {
		d.state = Idle
		d.sel = Selection{}
		d.mu.Unlock()
		return nil, ErrSlotPassed
	}

	d.state = Submitting
	d.mu.Unlock()

	booking, err := d.creator.CreateBooking(ctx, sess.Token, backend.CreateBookingRequest{
		CourtNumber: sel.CourtNumber,
		BookingDate: sel.Date,
		StartTime:   sel.Slot.Start,
		EndTime:     sel.Slot.End,
	})

	d.mu.Lock()
	d.state = Idle
	d.sel = Selection{}
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return booking, nil
}

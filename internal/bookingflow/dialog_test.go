package bookingflow

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
	"github.com/courtminton/courtminton-web/internal/session"
	"github.com/courtminton/courtminton-web/internal/timeslot"
)

type stubCreator struct {
	mu      sync.Mutex
	calls   int
	err     error
	release chan struct{}
}

func (s *stubCreator) CreateBooking(ctx context.Context, token string, req backend.CreateBookingRequest) (*backend.Booking, error) {
	s.mu.Lock()
	s.calls++
	release := s.release
	err := s.err
	s.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &backend.Booking{
		ID:          "b1",
		CourtNumber: req.CourtNumber,
		BookingDate: req.BookingDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      backend.StatusActive,
	}, nil
}

func (s *stubCreator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func testDialog(creator *stubCreator, now time.Time) *Dialog {
	d := NewDialog(creator)
	d.now = func() time.Time { return now }
	d.loc = time.UTC
	return d
}

var testSession = &session.Record{Token: "tok", StudentID: "651", Name: "Somchai", Role: "user"}

func futureSlot() (string, timeslot.Slot, time.Time) {
	// "Now" is 2026-02-08 09:00 UTC; slot starts at 17:30 the same day.
	now := time.Date(2026, 2, 8, 9, 0, 0, 0, time.UTC)
	return "2026-02-08", timeslot.Slot{Start: "17:30", End: "18:30"}, now
}

func TestSubmitHappyPath(t *testing.T) {
	date, slot, now := futureSlot()
	creator := &stubCreator{}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(4, date, slot))
	state, sel := d.Current()
	assert.Equal(t, Confirming, state)
	assert.Equal(t, 4, sel.CourtNumber)

	b, err := d.Submit(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 4, b.CourtNumber)
	assert.Equal(t, backend.StatusActive, b.Status)
	assert.Equal(t, 1, creator.callCount())

	state, _ = d.Current()
	assert.Equal(t, Idle, state)
}

func TestSubmitWithoutSessionSkipsBackend(t *testing.T) {
	date, slot, now := futureSlot()
	creator := &stubCreator{}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(1, date, slot))
	_, err := d.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrLoginRequired)
	assert.Zero(t, creator.callCount(), "unauthenticated submit must not contact the backend")

	state, _ := d.Current()
	assert.Equal(t, Idle, state)
}

func TestSubmitPastSlotRejectedLocally(t *testing.T) {
	creator := &stubCreator{}
	now := time.Date(2026, 2, 8, 18, 0, 0, 0, time.UTC)
	d := testDialog(creator, now)

	// Slot started at 17:30, it is 18:00 now.
	require.NoError(t, d.Open(1, "2026-02-08", timeslot.Slot{Start: "17:30", End: "18:30"}))
	_, err := d.Submit(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrSlotPassed)
	assert.Zero(t, creator.callCount())
}

func TestSubmitSlotStartingExactlyNowIsRejected(t *testing.T) {
	creator := &stubCreator{}
	now := time.Date(2026, 2, 8, 17, 30, 0, 0, time.UTC)
	d := testDialog(creator, now)

	require.NoError(t, d.Open(1, "2026-02-08", timeslot.Slot{Start: "17:30", End: "18:30"}))
	_, err := d.Submit(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrSlotPassed)
	assert.Zero(t, creator.callCount())
}

func TestSubmitInvalidDateRejectedLocally(t *testing.T) {
	date, slot, now := futureSlot()
	_ = date
	creator := &stubCreator{}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(1, "08/02/2026", slot))
	_, err := d.Submit(context.Background(), testSession)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Zero(t, creator.callCount())
}

func TestReentrantSubmitIsNoOp(t *testing.T) {
	date, slot, now := futureSlot()
	release := make(chan struct{})
	creator := &stubCreator{release: release}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(2, date, slot))

	done := make(chan error, 1)
	go func() {
		_, err := d.Submit(context.Background(), testSession)
		done <- err
	}()

	require.Eventually(t, func() bool {
		state, _ := d.Current()
		return state == Submitting
	}, time.Second, time.Millisecond)

	// Re-triggering submit while in flight must not issue a second call.
	_, err := d.Submit(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrBusy)

	// Opening a new dialog is also rejected while submitting.
	assert.ErrorIs(t, d.Open(3, date, slot), ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, creator.callCount())
}

func TestConfirmedAttemptIsNotResent(t *testing.T) {
	date, slot, now := futureSlot()
	creator := &stubCreator{}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(2, date, slot))
	_, err := d.Submit(context.Background(), testSession)
	require.NoError(t, err)

	// Same trigger again without a fresh Open: nothing is sent.
	_, err = d.Submit(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, 1, creator.callCount())

	// A fresh Idle -> Confirming cycle books again.
	require.NoError(t, d.Open(2, date, slot))
	_, err = d.Submit(context.Background(), testSession)
	require.NoError(t, err)
	assert.Equal(t, 2, creator.callCount())
}

func TestBackendFailureReturnsToIdle(t *testing.T) {
	date, slot, now := futureSlot()
	creator := &stubCreator{err: apperror.New(http.StatusConflict, "Court is not available for the selected time")}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(2, date, slot))
	_, err := d.Submit(context.Background(), testSession)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Court is not available for the selected time", appErr.Message)

	state, _ := d.Current()
	assert.Equal(t, Idle, state)
}

func TestCloseDismissesConfirmation(t *testing.T) {
	date, slot, now := futureSlot()
	creator := &stubCreator{}
	d := testDialog(creator, now)

	require.NoError(t, d.Open(2, date, slot))
	d.Close()

	_, err := d.Submit(context.Background(), testSession)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Zero(t, creator.callCount())
}

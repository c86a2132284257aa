package bookings

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
)

type stubService struct {
	bookings  []backend.Booking
	listErr   error
	cancelErr error
	cancelled []string
}

func (s *stubService) ListBookings(ctx context.Context, token string) ([]backend.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]backend.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

func (s *stubService) CancelBooking(ctx context.Context, token, id string) error {
	if s.cancelErr != nil {
		return s.cancelErr
	}
	s.cancelled = append(s.cancelled, id)
	return nil
}

func sample() []backend.Booking {
	return []backend.Booking{
		{ID: "b1", CourtNumber: 1, BookingDate: "2026-02-08", StartTime: "17:30", EndTime: "18:30", Status: backend.StatusActive},
		{ID: "b2", CourtNumber: 2, BookingDate: "2026-01-20", StartTime: "09:00", EndTime: "10:00", Status: backend.StatusCompleted},
		{ID: "b3", CourtNumber: 3, BookingDate: "2026-02-09", StartTime: "10:00", EndTime: "11:00", Status: backend.StatusActive},
		{ID: "b4", CourtNumber: 4, BookingDate: "2026-01-25", StartTime: "18:00", EndTime: "19:00", Status: backend.StatusCancelled},
	}
}

func TestGroupsPartitionPreservesOrder(t *testing.T) {
	svc := &stubService{bookings: sample()}
	v := NewView(svc)
	require.NoError(t, v.Load(context.Background(), "tok"))

	g := v.Groups()
	require.Len(t, g.Active, 2)
	require.Len(t, g.Completed, 1)
	require.Len(t, g.Cancelled, 1)

	// Server order preserved within each group.
	assert.Equal(t, "b1", g.Active[0].ID)
	assert.Equal(t, "b3", g.Active[1].ID)
	assert.Equal(t, "b2", g.Completed[0].ID)
	assert.Equal(t, "b4", g.Cancelled[0].ID)
}

func TestCancelFlipsOnlyThatBooking(t *testing.T) {
	svc := &stubService{bookings: sample()}
	v := NewView(svc)
	require.NoError(t, v.Load(context.Background(), "tok"))

	require.NoError(t, v.Cancel(context.Background(), "tok", "b1"))
	assert.Equal(t, []string{"b1"}, svc.cancelled)

	g := v.Groups()
	require.Len(t, g.Active, 1)
	assert.Equal(t, "b3", g.Active[0].ID)

	// b1 is still in the list, just cancelled now; relative order kept.
	require.Len(t, g.Cancelled, 2)
	assert.Equal(t, "b1", g.Cancelled[0].ID)
	assert.Equal(t, "b4", g.Cancelled[1].ID)
	require.Len(t, g.Completed, 1)
}

func TestFailedCancelLeavesListUnchanged(t *testing.T) {
	svc := &stubService{
		bookings:  sample(),
		cancelErr: apperror.New(http.StatusBadRequest, "Booking is already cancelled"),
	}
	v := NewView(svc)
	require.NoError(t, v.Load(context.Background(), "tok"))

	before := v.Groups()
	err := v.Cancel(context.Background(), "tok", "b1")
	require.Error(t, err)

	assert.Equal(t, before, v.Groups())
	assert.Empty(t, svc.cancelled)
}

func TestAppendShowsUpInActiveGroup(t *testing.T) {
	svc := &stubService{bookings: sample()}
	v := NewView(svc)
	require.NoError(t, v.Load(context.Background(), "tok"))

	v.Append(backend.Booking{ID: "b5", CourtNumber: 5, Status: backend.StatusActive})

	g := v.Groups()
	require.Len(t, g.Active, 3)
	assert.Equal(t, "b5", g.Active[2].ID)
}

func TestLoadFailureSurfaces(t *testing.T) {
	svc := &stubService{listErr: apperror.New(http.StatusUnauthorized, "invalid or expired token")}
	v := NewView(svc)
	assert.Error(t, v.Load(context.Background(), "tok"))
}

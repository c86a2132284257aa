package backend

import (
	"context"
	"net/http"
)

// ListBookings fetches all bookings of the authenticated user.
func (c *Client) ListBookings(ctx context.Context, token string) ([]Booking, error) {
	var bookings []Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings", token, nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBooking submits a booking request and returns the created record.
func (c *Client) CreateBooking(ctx context.Context, token string, req CreateBookingRequest) (*Booking, error) {
	var b Booking
	if err := c.doJSON(ctx, http.MethodPost, "/bookings", token, req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking cancels the booking with the given id.
func (c *Client) CancelBooking(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/bookings/"+id, token, nil, nil)
}

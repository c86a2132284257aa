package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtminton/courtminton-web/internal/availability"
	"github.com/courtminton/courtminton-web/internal/bookingflow"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
	"github.com/courtminton/courtminton-web/internal/pkg/response"
	"github.com/courtminton/courtminton-web/internal/session"
)

type openBookingRequest struct {
	CourtNumber int    `json:"courtNumber" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
}

// HomePage renders the availability page: the slot picker plus whatever the
// user's availability view currently holds.
func (h *Handler) HomePage(c *gin.Context) {
	var (
		snap    availability.Snapshot
		loading bool
		state   bookingflow.State
		sel     bookingflow.Selection
	)
	if views, ok := h.currentViews(c); ok {
		snap, loading = views.Availability.Snapshot()
		state, sel = views.Dialog.Current()
	}

	// The end-time options depend on the chosen start time, so the page's
	// script needs the whole grid up front.
	endTimes := make(map[string][]string)
	for _, start := range h.grid.StartTimes() {
		endTimes[start] = h.grid.EndTimes(start)
	}
	gridJSON, _ := json.Marshal(endTimes)

	c.HTML(http.StatusOK, "home.tmpl", gin.H{
		"Session":     session.Current(c),
		"Today":       time.Now().Format("2006-01-02"),
		"StartTimes":  h.grid.StartTimes(),
		"GridJSON":    template.JS(gridJSON),
		"Snapshot":    snap,
		"Loading":     loading,
		"DialogState": state.String(),
		"Selection":   sel,
	})
}

// AvailableCourts refreshes the availability view for the requested date and
// slot. A response that arrives after a newer selection is reported as stale
// so the caller keeps showing the newer result.
func (h *Handler) AvailableCourts(c *gin.Context) {
	date := c.Query("date")
	slot, ok := h.grid.Normalize(c.Query("startTime"), c.Query("endTime"))
	if date == "" || !ok {
		response.Error(c, apperror.New(http.StatusBadRequest, "date, startTime and endTime are required and must be on the booking grid"))
		return
	}

	views := h.registry.For(h.viewKey(c))
	snap, err := views.Availability.Refresh(c.Request.Context(), date, slot)
	if errors.Is(err, availability.ErrSuperseded) {
		c.JSON(http.StatusOK, gin.H{"stale": true, "snapshot": snap})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshot": snap})
}

// OpenBooking moves the user's booking dialog to confirming for the selected
// court and slot.
func (h *Handler) OpenBooking(c *gin.Context) {
	var req openBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "courtNumber, date, startTime and endTime are required"))
		return
	}
	slot, ok := h.grid.Normalize(req.StartTime, req.EndTime)
	if !ok {
		response.Error(c, apperror.New(http.StatusBadRequest, "the selected time slot is not on the booking grid"))
		return
	}

	views := h.registry.For(h.viewKey(c))
	if err := views.Dialog.Open(req.CourtNumber, req.Date, slot); err != nil {
		response.Error(c, err)
		return
	}

	state, sel := views.Dialog.Current()
	c.JSON(http.StatusOK, gin.H{"state": state.String(), "selection": sel})
}

// ConfirmBooking submits the confirmed selection. An unauthenticated confirm
// is bounced to the login page without reaching the backend.
func (h *Handler) ConfirmBooking(c *gin.Context) {
	views, ok := h.currentViews(c)
	if !ok {
		// Nothing was ever opened for this client.
		response.Error(c, bookingflow.ErrNoSelection)
		return
	}

	booking, err := views.Dialog.Submit(c.Request.Context(), session.Current(c))
	if errors.Is(err, bookingflow.ErrLoginRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    response.Message(err),
			"redirect": "/login",
		})
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	views.Bookings.Append(*booking)
	slot, ok := h.grid.Normalize(booking.StartTime, booking.EndTime)
	if ok {
		views.Availability.MarkBooked(booking.CourtNumber, booking.BookingDate, slot)
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking, "redirect": "/bookings"})
}

// DismissBooking closes the confirmation dialog without submitting.
func (h *Handler) DismissBooking(c *gin.Context) {
	views, ok := h.currentViews(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"state": bookingflow.Idle.String()})
		return
	}
	views.Dialog.Close()

	state, _ := views.Dialog.Current()
	c.JSON(http.StatusOK, gin.H{"state": state.String()})
}

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtminton/courtminton-web/internal/pkg/response"
	"github.com/courtminton/courtminton-web/internal/session"
)

// BookingsPage fetches the user's bookings and renders them grouped by
// status. Groups keep the order the backend returned.
func (h *Handler) BookingsPage(c *gin.Context) {
	sess := session.Current(c)
	views := h.registry.For(h.viewKey(c))

	data := gin.H{"Session": sess}
	if err := views.Bookings.Load(c.Request.Context(), sess.Token); err != nil {
		data["Error"] = response.Message(err)
		c.HTML(response.Status(err), "bookings.tmpl", data)
		return
	}

	data["Groups"] = views.Bookings.Groups()
	c.HTML(http.StatusOK, "bookings.tmpl", data)
}

// CancelBooking cancels one booking. The entry stays in the list; only its
// status flips once the backend confirms.
func (h *Handler) CancelBooking(c *gin.Context) {
	sess := session.Current(c)
	views := h.registry.For(h.viewKey(c))

	if err := views.Bookings.Cancel(c.Request.Context(), sess.Token, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": views.Bookings.Groups()})
}

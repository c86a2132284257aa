package web

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courtminton/courtminton-web/internal/availability"
	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/bookingflow"
	"github.com/courtminton/courtminton-web/internal/bookings"
	"github.com/courtminton/courtminton-web/internal/profile"
	"github.com/courtminton/courtminton-web/internal/session"
)

// viewCookie gives anonymous browsers a stable key so their availability view
// keeps its last-request-wins ordering before they log in. It carries no
// credentials.
const viewCookie = "courtminton_view"

// viewTTL is how long an entry may sit untouched before it is evicted.
// Session records expire on their own TTL; their view entries idle out here.
const viewTTL = 30 * time.Minute

// sweepEvery bounds how often For scans the map for idle entries.
const sweepEvery = time.Minute

// Views bundles the per-user view state: the availability panel, the booking
// confirmation dialog, the bookings list and the profile page.
type Views struct {
	Availability *availability.View
	Dialog       *bookingflow.Dialog
	Bookings     *bookings.View
	Profile      *profile.View
}

type viewEntry struct {
	views    *Views
	lastSeen time.Time
}

// Registry maps view keys (session IDs, or the anonymous view cookie) to view
// state. Entries are created on demand, dropped on logout and evicted after
// sitting idle for viewTTL, so abandoned keys cannot grow the map forever.
type Registry struct {
	mu        sync.Mutex
	client    *backend.Client
	ttl       time.Duration
	now       func() time.Time
	views     map[string]*viewEntry
	lastSweep time.Time
}

// NewRegistry creates an empty registry backed by the given API client.
func NewRegistry(client *backend.Client) *Registry {
	return &Registry{
		client: client,
		ttl:    viewTTL,
		now:    time.Now,
		views:  make(map[string]*viewEntry),
	}
}

// For returns the view state for the given key, creating it if needed.
func (r *Registry) For(key string) *Views {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if e, ok := r.views[key]; ok {
		e.lastSeen = now
		return e.views
	}
	e := &viewEntry{
		views: &Views{
			Availability: availability.NewView(r.client),
			Dialog:       bookingflow.NewDialog(r.client),
			Bookings:     bookings.NewView(r.client),
			Profile:      profile.NewView(r.client),
		},
		lastSeen: now,
	}
	r.views[key] = e
	return e.views
}

// Drop discards the view state for the given key.
func (r *Registry) Drop(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.views, key)
}

// Len reports how many keys currently hold view state.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// sweep evicts entries idle longer than the TTL. It runs at most once per
// sweepEvery so For stays cheap. Callers must hold r.mu.
func (r *Registry) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < sweepEvery {
		return
	}
	r.lastSweep = now
	for key, e := range r.views {
		if now.Sub(e.lastSeen) > r.ttl {
			delete(r.views, key)
		}
	}
}

// viewKey resolves the key for the request: the session ID when logged in,
// otherwise the anonymous view cookie (set on first use).
func (h *Handler) viewKey(c *gin.Context) string {
	if sid := session.SessionID(c); sid != "" {
		return sid
	}
	if v, err := c.Cookie(viewCookie); err == nil && v != "" {
		return v
	}
	v := uuid.NewString()
	c.SetCookie(viewCookie, v, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return v
}

// currentViews returns the request's view state only if a key already exists.
// Read-style handlers use it so a cookieless request (a crawler, curl) never
// mints a registry entry just to render defaults.
func (h *Handler) currentViews(c *gin.Context) (*Views, bool) {
	if sid := session.SessionID(c); sid != "" {
		return h.registry.For(sid), true
	}
	if v, err := c.Cookie(viewCookie); err == nil && v != "" {
		return h.registry.For(v), true
	}
	return nil, false
}

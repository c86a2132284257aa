package session

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieName is the browser cookie holding the signed session ID.
const CookieName = "courtminton_session"

// Record is the authenticated user's session: the backend bearer token plus
// the identity returned by login. It exists only after a successful login and
// is written exclusively by login/logout.
type Record struct {
	Token     string `json:"token"`
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// Manager owns the session lifecycle: created on login, destroyed on logout or
// on session-integrity failure.
type Manager struct {
	store Store
	codec *Codec
	ttl   time.Duration
}

// NewManager creates a session manager.
func NewManager(store Store, codec *Codec, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		codec: codec,
		ttl:   ttl,
	}
}

// Begin starts a session for the given record and sets the signed cookie.
// It returns the new session ID.
func (m *Manager) Begin(c *gin.Context, rec *Record) (string, error) {
	sid := uuid.NewString()

	if err := m.store.Save(c.Request.Context(), sid, rec, m.ttl); err != nil {
		return "", err
	}

	signed, err := m.codec.Sign(sid)
	if err != nil {
		// Don't leave an orphaned record behind.
		_ = m.store.Delete(c.Request.Context(), sid)
		return "", err
	}

	m.setCookie(c, signed, int(m.ttl.Seconds()))
	return sid, nil
}

// End terminates the current session, if any, and clears the cookie.
func (m *Manager) End(c *gin.Context) {
	if sid := SessionID(c); sid != "" {
		_ = m.store.Delete(c.Request.Context(), sid)
	}
	m.setCookie(c, "", -1)
}

// load resolves the session record for the request's cookie. A missing,
// tampered or expired cookie and a corrupt or absent record all read as
// logged out.
func (m *Manager) load(c *gin.Context) (string, *Record) {
	signed, err := c.Cookie(CookieName)
	if err != nil || signed == "" {
		return "", nil
	}

	sid, err := m.codec.Verify(signed)
	if err != nil {
		return "", nil
	}

	rec, err := m.store.Get(c.Request.Context(), sid)
	if err != nil || rec == nil {
		return "", nil
	}
	return sid, rec
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", false, true)
}

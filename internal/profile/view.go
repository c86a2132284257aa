package profile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
)

// ErrSessionIntegrity reports that the profile could not be loaded while the
// user is supposedly authenticated. The caller must treat this as fatal to the
// session and log the user out.
var ErrSessionIntegrity = apperror.New(http.StatusUnauthorized, "your session is no longer valid, please log in again")

// ErrUploadInProgress blocks a second upload while one is in flight.
var ErrUploadInProgress = apperror.New(http.StatusConflict, "a picture upload is already in progress")

// API is the slice of the backend client the view needs.
type API interface {
	GetProfile(ctx context.Context, token string) (*backend.Profile, error)
	UpdateProfile(ctx context.Context, token, name, email string) error
	UploadPicture(ctx context.Context, token, filename string, content io.Reader) (string, error)
}

// View holds one user's profile page. Name and email are the only editable
// fields; the picture is a tentative-then-confirmed two-phase value.
type View struct {
	mu  sync.Mutex
	api API

	profile   backend.Profile
	loaded    bool
	pending   string // optimistic preview while an upload is in flight
	uploading bool
}

// NewView creates an empty profile view.
func NewView(api API) *View {
	return &View{api: api}
}

// Load fetches the profile. A failure here while holding a session token is a
// session-integrity failure: the stored credentials no longer work.
func (v *View) Load(ctx context.Context, token string) (backend.Profile, error) {
	p, err := v.api.GetProfile(ctx, token)
	if err != nil {
		return backend.Profile{}, errors.Join(ErrSessionIntegrity, err)
	}

	v.mu.Lock()
	v.profile = *p
	v.loaded = true
	v.mu.Unlock()
	return *p, nil
}

// Current returns the profile as it should be displayed, with the optimistic
// picture preview substituted while an upload is pending.
func (v *View) Current() (backend.Profile, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	p := v.profile
	if v.pending != "" {
		p.ProfilePicture = v.pending
	}
	return p, v.loaded
}

// Save submits the editable fields only and applies them locally on success.
func (v *View) Save(ctx context.Context, token, name, email string) error {
	if err := v.api.UpdateProfile(ctx, token, name, email); err != nil {
		return err
	}

	v.mu.Lock()
	v.profile.Name = name
	v.profile.Email = email
	v.mu.Unlock()
	return nil
}

// UploadPicture validates and uploads a new profile picture. Non-image content
// is rejected before any network call. The displayed picture updates
// optimistically to a local preview, converges to the backend URL on success
// and reverts on failure.
func (v *View) UploadPicture(ctx context.Context, token string, content []byte) (string, error) {
	normalized, err := normalizePicture(content)
	if err != nil {
		return "", err
	}

	v.mu.Lock()
	if v.uploading {
		v.mu.Unlock()
		return "", ErrUploadInProgress
	}
	v.uploading = true
	v.pending = previewURI(normalized)
	v.mu.Unlock()

	url, err := v.api.UploadPicture(ctx, token, "profile.jpg", bytes.NewReader(normalized))

	v.mu.Lock()
	defer v.mu.Unlock()
	v.uploading = false
	v.pending = ""

	if err != nil {
		// Revert: the confirmed value was never touched.
		return "", err
	}
	v.profile.ProfilePicture = url
	return url, nil
}

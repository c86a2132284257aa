package profile

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
)

type stubAPI struct {
	mu          sync.Mutex
	profile     backend.Profile
	getErr      error
	updateErr   error
	uploadErr   error
	uploadURL   string
	uploadCalls int
	release     chan struct{}
	updatedName string
	updatedMail string
}

func (s *stubAPI) GetProfile(ctx context.Context, token string) (*backend.Profile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p := s.profile
	return &p, nil
}

func (s *stubAPI) UpdateProfile(ctx context.Context, token, name, email string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedName, s.updatedMail = name, email
	return nil
}

func (s *stubAPI) UploadPicture(ctx context.Context, token, filename string, content io.Reader) (string, error) {
	s.mu.Lock()
	s.uploadCalls++
	release := s.release
	err := s.uploadErr
	url := s.uploadURL
	s.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return "", err
	}
	return url, nil
}

func (s *stubAPI) uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploadCalls
}

// pngBytes renders a small valid PNG for upload tests.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func baseProfile() backend.Profile {
	return backend.Profile{
		Name:           "Somchai Jaidee",
		StudentID:      "6512345678",
		Email:          "somchai@example.ac.th",
		Phone:          "0812345678",
		ProfilePicture: "http://cdn.example.com/old.jpg",
	}
}

func TestLoad(t *testing.T) {
	api := &stubAPI{profile: baseProfile()}
	v := NewView(api)

	p, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Somchai Jaidee", p.Name)

	current, loaded := v.Current()
	assert.True(t, loaded)
	assert.Equal(t, baseProfile(), current)
}

func TestLoadFailureIsSessionIntegrityFailure(t *testing.T) {
	api := &stubAPI{getErr: apperror.New(http.StatusUnauthorized, "invalid or expired token")}
	v := NewView(api)

	_, err := v.Load(context.Background(), "tok")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionIntegrity)

	_, loaded := v.Current()
	assert.False(t, loaded)
}

func TestSaveSubmitsEditableFieldsOnly(t *testing.T) {
	api := &stubAPI{profile: baseProfile()}
	v := NewView(api)
	_, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)

	require.NoError(t, v.Save(context.Background(), "tok", "New Name", "new@example.ac.th"))
	assert.Equal(t, "New Name", api.updatedName)
	assert.Equal(t, "new@example.ac.th", api.updatedMail)

	current, _ := v.Current()
	assert.Equal(t, "New Name", current.Name)
	assert.Equal(t, "new@example.ac.th", current.Email)
	// Read-only fields untouched.
	assert.Equal(t, "6512345678", current.StudentID)
	assert.Equal(t, "0812345678", current.Phone)
}

func TestSaveFailureLeavesProfileUnchanged(t *testing.T) {
	api := &stubAPI{profile: baseProfile(), updateErr: apperror.New(http.StatusBadRequest, "Invalid request body")}
	v := NewView(api)
	_, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)

	require.Error(t, v.Save(context.Background(), "tok", "New Name", "new@example.ac.th"))

	current, _ := v.Current()
	assert.Equal(t, baseProfile(), current)
}

func TestUploadRejectsNonImageBeforeNetwork(t *testing.T) {
	api := &stubAPI{profile: baseProfile()}
	v := NewView(api)
	_, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)

	_, err = v.UploadPicture(context.Background(), "tok", []byte("%PDF-1.7 definitely not a picture"))
	assert.ErrorIs(t, err, ErrNotAnImage)
	assert.Zero(t, api.uploads(), "non-image upload must not reach the backend")

	current, _ := v.Current()
	assert.Equal(t, "http://cdn.example.com/old.jpg", current.ProfilePicture)
}

func TestUploadOptimisticPreviewThenConverges(t *testing.T) {
	release := make(chan struct{})
	api := &stubAPI{
		profile:   baseProfile(),
		uploadURL: "http://cdn.example.com/new.jpg",
		release:   release,
	}
	v := NewView(api)
	_, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)

	done := make(chan error, 1)
	var gotURL string
	go func() {
		url, err := v.UploadPicture(context.Background(), "tok", pngBytes(t, 10, 10))
		gotURL = url
		done <- err
	}()

	// While in flight the view shows the optimistic local preview.
	require.Eventually(t, func() bool {
		current, _ := v.Current()
		return strings.HasPrefix(current.ProfilePicture, "data:image/jpeg;base64,")
	}, time.Second, time.Millisecond)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "http://cdn.example.com/new.jpg", gotURL)

	current, _ := v.Current()
	assert.Equal(t, "http://cdn.example.com/new.jpg", current.ProfilePicture)
}

func TestUploadFailureReverts(t *testing.T) {
	api := &stubAPI{
		profile:   baseProfile(),
		uploadErr: apperror.New(http.StatusInternalServerError, "Failed to save file"),
	}
	v := NewView(api)
	_, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)

	_, err = v.UploadPicture(context.Background(), "tok", pngBytes(t, 10, 10))
	require.Error(t, err)

	current, _ := v.Current()
	assert.Equal(t, "http://cdn.example.com/old.jpg", current.ProfilePicture)
}

func TestConcurrentUploadBlocked(t *testing.T) {
	release := make(chan struct{})
	api := &stubAPI{
		profile:   baseProfile(),
		uploadURL: "http://cdn.example.com/new.jpg",
		release:   release,
	}
	v := NewView(api)
	_, err := v.Load(context.Background(), "tok")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := v.UploadPicture(context.Background(), "tok", pngBytes(t, 10, 10))
		done <- err
	}()

	require.Eventually(t, func() bool {
		return api.uploads() == 1
	}, time.Second, time.Millisecond)

	_, err = v.UploadPicture(context.Background(), "tok", pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, ErrUploadInProgress)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, api.uploads())
}

func TestNormalizePictureBoundsLargeImages(t *testing.T) {
	big := pngBytes(t, 1600, 900)

	normalized, err := normalizePicture(big)
	require.NoError(t, err)

	assert.Equal(t, "image/jpeg", http.DetectContentType(normalized))

	cfg, _, err := image.DecodeConfig(bytes.NewReader(normalized))
	require.NoError(t, err)
	assert.LessOrEqual(t, cfg.Width, maxPictureSize)
	assert.LessOrEqual(t, cfg.Height, maxPictureSize)
}

package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtminton/courtminton-web/internal/pkg/apperror"
	"github.com/courtminton/courtminton-web/internal/pkg/response"
	"github.com/courtminton/courtminton-web/internal/profile"
	"github.com/courtminton/courtminton-web/internal/session"
)

// maxUploadBytes caps profile picture uploads at 8 MiB before decoding.
const maxUploadBytes = 8 << 20

type saveProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// ProfilePage fetches and renders the user's profile. If the backend rejects
// the stored token the session is corrupt: it is destroyed and the user is
// sent back to the login page.
func (h *Handler) ProfilePage(c *gin.Context) {
	sess := session.Current(c)
	views := h.registry.For(h.viewKey(c))

	p, err := views.Profile.Load(c.Request.Context(), sess.Token)
	if errors.Is(err, profile.ErrSessionIntegrity) {
		if sid := session.SessionID(c); sid != "" {
			h.registry.Drop(sid)
		}
		h.sessions.End(c)
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if err != nil {
		c.HTML(response.Status(err), "profile.tmpl", gin.H{
			"Session": sess,
			"Error":   response.Message(err),
		})
		return
	}

	c.HTML(http.StatusOK, "profile.tmpl", gin.H{
		"Session": sess,
		"Profile": p,
	})
}

// SaveProfile updates the editable fields (name and email) on the backend and
// returns the refreshed profile.
func (h *Handler) SaveProfile(c *gin.Context) {
	var req saveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "name and a valid email are required"))
		return
	}

	sess := session.Current(c)
	views := h.registry.For(h.viewKey(c))

	if err := views.Profile.Save(c.Request.Context(), sess.Token, req.Name, req.Email); err != nil {
		response.Error(c, err)
		return
	}

	current, _ := views.Profile.Current()
	c.JSON(http.StatusOK, gin.H{"profile": current})
}

// UploadProfilePicture accepts a multipart upload, validates that it is an
// image and forwards it to the backend. The confirmed picture URL is returned.
func (h *Handler) UploadProfilePicture(c *gin.Context) {
	file, err := c.FormFile("profilePicture")
	if err != nil {
		response.Error(c, apperror.New(http.StatusBadRequest, "a profilePicture file is required"))
		return
	}
	if file.Size > maxUploadBytes {
		response.Error(c, apperror.New(http.StatusRequestEntityTooLarge, "profile picture is too large"))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "could not read the uploaded file"))
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxUploadBytes))
	if err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, "could not read the uploaded file"))
		return
	}

	sess := session.Current(c)
	views := h.registry.For(h.viewKey(c))

	url, err := views.Profile.UploadPicture(c.Request.Context(), sess.Token, content)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profilePicture": url})
}

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/courtminton/courtminton-web/internal/pkg/response"
	"github.com/courtminton/courtminton-web/internal/session"
)

type loginForm struct {
	StudentID string `form:"studentId" binding:"required"`
	Password  string `form:"password" binding:"required"`
}

type registerForm struct {
	StudentID string `form:"studentId" binding:"required"`
	Password  string `form:"password" binding:"required,min=8"`
	Name      string `form:"name" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
}

// LoginPage renders the login form. Logged-in users are sent home.
func (h *Handler) LoginPage(c *gin.Context) {
	if session.Current(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{"StudentID": ""})
}

// Login exchanges the form credentials for a backend token and starts a
// session. Failures re-render the form with the error message.
func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.tmpl", gin.H{
			"Error":     "student ID and password are required",
			"StudentID": form.StudentID,
		})
		return
	}

	creds, err := h.client.Login(c.Request.Context(), form.StudentID, form.Password)
	if err != nil {
		c.HTML(response.Status(err), "login.tmpl", gin.H{
			"Error":     response.Message(err),
			"StudentID": form.StudentID,
		})
		return
	}

	// The anonymous view state does not carry over into the session.
	h.registry.Drop(h.viewKey(c))

	_, err = h.sessions.Begin(c, &session.Record{
		Token:     creds.Token,
		StudentID: creds.StudentID,
		Name:      creds.Name,
		Role:      creds.Role,
	})
	if err != nil {
		c.HTML(http.StatusInternalServerError, "login.tmpl", gin.H{
			"Error":     "could not start your session, please try again",
			"StudentID": form.StudentID,
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage renders the registration form.
func (h *Handler) RegisterPage(c *gin.Context) {
	if session.Current(c) != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "register.tmpl", gin.H{"Form": registerForm{}})
}

// Register creates an account on the backend, then sends the user to the
// login form to sign in with the new credentials.
func (h *Handler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register.tmpl", gin.H{
			"Error": "all fields are required; passwords need at least 8 characters",
			"Form":  form,
		})
		return
	}

	_, err := h.client.Register(c.Request.Context(), form.StudentID, form.Password, form.Name, form.Email)
	if err != nil {
		c.HTML(response.Status(err), "register.tmpl", gin.H{
			"Error": response.Message(err),
			"Form":  form,
		})
		return
	}

	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Notice":    "account created, please log in",
		"StudentID": form.StudentID,
	})
}

// Logout ends the session and discards the user's view state.
func (h *Handler) Logout(c *gin.Context) {
	if sid := session.SessionID(c); sid != "" {
		h.registry.Drop(sid)
	}
	h.sessions.End(c)
	c.Redirect(http.StatusSeeOther, "/login")
}

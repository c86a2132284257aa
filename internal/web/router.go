package web

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/session"
	"github.com/courtminton/courtminton-web/internal/timeslot"
)

// Config holds the dependencies and settings required to build the router.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	TemplatesGlob string
	StaticDir     string
	Client        *backend.Client
	Sessions      *session.Manager
	Registry      *Registry
	Grid          timeslot.Grid
}

// Handler carries the web layer's dependencies across page and API handlers.
type Handler struct {
	client   *backend.Client
	sessions *session.Manager
	registry *Registry
	grid     timeslot.Grid
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, Logger, Session) and registers page and API routes.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:8080", "http://localhost:5173"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	// Session loading is global; gating happens per route group.
	r.Use(session.Load(cfg.Sessions))

	if cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(cfg.TemplatesGlob)
	}
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}

	h := &Handler{
		client:   cfg.Client,
		sessions: cfg.Sessions,
		registry: cfg.Registry,
		grid:     cfg.Grid,
	}

	// Public pages
	r.GET("/", h.HomePage)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/register", h.RegisterPage)
	r.POST("/register", h.Register)
	r.POST("/logout", h.Logout)

	// Session-gated pages
	pages := r.Group("/", session.RequirePage())
	{
		pages.GET("/bookings", h.BookingsPage)
		pages.GET("/profile", h.ProfilePage)
	}

	api := r.Group("/api")
	{
		// Availability is public; booking confirmation guards auth itself so
		// an unauthenticated submit redirects to login without touching the
		// backend.
		api.GET("/courts", h.AvailableCourts)
		api.POST("/book/open", h.OpenBooking)
		api.POST("/book/confirm", h.ConfirmBooking)
		api.POST("/book/dismiss", h.DismissBooking)

		authed := api.Group("/", session.RequireJSON())
		{
			authed.POST("/bookings/:id/cancel", h.CancelBooking)
			authed.PUT("/profile", h.SaveProfile)
			authed.POST("/profile/picture", h.UploadProfilePicture)
		}
	}

	return r
}

// Package handler serves the job board over HTTP.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/arllen133/jobboard/internal/post"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/arllen133/jobboard/internal/user"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/gorilla/handlers"
)

const (
	DefaultPageSize = 10
	homeListings    = 6
)

type Deps struct {
	Posts    *post.Repository
	Users    *user.Repository
	Sessions *session.Manager
	Views    render.HTMLRender
	Logger   *slog.Logger
	PageSize int
}

type Handler struct {
	posts    *post.Repository
	users    *user.Repository
	sessions *session.Manager
	views    render.HTMLRender
	logger   *slog.Logger
	pageSize int
}

func New(d Deps) *Handler {
	h := &Handler{
		posts:    d.Posts,
		users:    d.Users,
		sessions: d.Sessions,
		views:    d.Views,
		logger:   d.Logger,
		pageSize: d.PageSize,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.pageSize <= 0 {
		h.pageSize = DefaultPageSize
	}
	return h
}

// Engine builds the gin engine with every route registered.
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.HTMLRender = h.views
	r.Use(accessLog(h.logger), gin.CustomRecovery(h.recovered), h.sessions.Middleware())

	r.NoRoute(func(c *gin.Context) {
		h.renderError(c, http.StatusNotFound, "Page not found")
	})

	r.GET("/", h.home)

	listings := r.Group("/listings")
	listings.GET("", h.listingIndex)
	listings.GET("/create", h.requireAuth, h.listingCreate)
	listings.GET("/edit/:id", h.requireAuth, h.listingEdit)
	listings.GET("/search", h.listingSearch)
	listings.GET("/:id", h.listingShow)
	listings.POST("", h.requireAuth, h.listingStore)
	listings.PUT("/:id", h.requireAuth, h.listingUpdate)
	listings.DELETE("/:id", h.requireAuth, h.listingDestroy)

	auth := r.Group("/auth")
	auth.GET("/register", h.requireGuest, h.showRegister)
	auth.GET("/login", h.requireGuest, h.showLogin)
	auth.POST("/register", h.requireGuest, h.register)
	auth.POST("/logout", h.requireAuth, h.logout)
	auth.POST("/login", h.requireGuest, h.login)

	return r
}

// Router returns the engine wrapped so HTML forms can tunnel PUT and
// DELETE through a _method field.
func (h *Handler) Router() http.Handler {
	return handlers.HTTPMethodOverrideHandler(h.Engine())
}

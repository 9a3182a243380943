package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/arllen133/jobboard/internal/ctxutil"
	"github.com/arllen133/jobboard/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(ctxutil.SetRequestID(c.Request.Context(), id))

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("request_id", id),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		)
	}
}

// requireAuth sends guests to the login page.
func (h *Handler) requireAuth(c *gin.Context) {
	if !session.FromContext(c.Request.Context()).IsAuthenticated() {
		h.redirect(c, "/auth/login")
		c.Abort()
		return
	}
	c.Next()
}

// requireGuest sends signed-in users home.
func (h *Handler) requireGuest(c *gin.Context) {
	if session.FromContext(c.Request.Context()).IsAuthenticated() {
		h.redirect(c, "/")
		c.Abort()
		return
	}
	c.Next()
}

func (h *Handler) recovered(c *gin.Context, err any) {
	h.logger.ErrorContext(c.Request.Context(), "panic serving request",
		slog.Any("error", err),
		slog.String("path", c.Request.URL.Path),
	)
	h.renderError(c, http.StatusInternalServerError, "Something went wrong")
	c.Abort()
}

package handler

import (
	"log/slog"
	"net/http"

	"github.com/arllen133/jobboard/internal/session"
	"github.com/arllen133/jobboard/internal/view"
	"github.com/gin-gonic/gin"
)

// saveSession must run before anything is written to the response.
func (h *Handler) saveSession(c *gin.Context, s *session.Session) {
	if err := h.sessions.Save(c.Writer, s); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "save session", slog.Any("error", err))
	}
}

func (h *Handler) render(c *gin.Context, status int, page string, data view.Data) {
	s := session.FromContext(c.Request.Context())
	data.Session = s
	data.Flashes = s.Flashes()
	h.saveSession(c, s)
	c.HTML(status, page, data)
}

func (h *Handler) redirect(c *gin.Context, location string) {
	h.saveSession(c, session.FromContext(c.Request.Context()))
	c.Redirect(http.StatusFound, location)
}

// flashRedirect queues a flash message and redirects.
func (h *Handler) flashRedirect(c *gin.Context, kind, message, location string) {
	session.FromContext(c.Request.Context()).Flash(kind, message)
	h.redirect(c, location)
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	h.render(c, status, view.PageError, view.Data{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}

// serverError logs err and renders the generic failure page.
func (h *Handler) serverError(c *gin.Context, err error) {
	h.logger.ErrorContext(c.Request.Context(), "request failed",
		slog.Any("error", err),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
	)
	h.renderError(c, http.StatusInternalServerError, "Something went wrong")
}

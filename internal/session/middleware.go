package session

import (
	"github.com/arllen133/jobboard/internal/ctxutil"
	"github.com/gin-gonic/gin"
)

// Middleware loads the session into the request context. Handlers save it
// with Manager.Save before writing the response.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := m.Load(c.Request)

		ctx := NewContext(c.Request.Context(), s)
		if uid := s.UserID(); uid != 0 {
			ctx = ctxutil.SetUserID(ctx, uid)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

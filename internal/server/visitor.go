package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/theme"
)

const (
	visitorCookie = "visitor_id"
	visitorMaxAge = 365 * 24 * 60 * 60

	ctxVisitor = "visitor"
)

func generateSalt() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate hashing salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hash gives a stable, non-reversible tag for logs.
func (s *Server) hash(v string) string {
	h := sha256.New()
	h.Write([]byte(v + s.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// visitorMiddleware assigns each visitor a random ID cookie. Visitors who
// send DNT get no cookie and their preferences stay in memory.
func (s *Server) visitorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/assets/") ||
			strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/metrics" || path == "/health" {
			c.Next()
			return
		}

		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		id, err := c.Cookie(visitorCookie)
		if err != nil || !validVisitorID(id) {
			id = uuid.NewString()
			c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", false, true)
		}
		c.Set(ctxVisitor, id)
		c.Next()
	}
}

func validVisitorID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// storeFor returns the visitor's preference store, or nil for visitors
// without an ID.
func (s *Server) storeFor(c *gin.Context) theme.Store {
	id := c.GetString(ctxVisitor)
	if id == "" {
		return nil
	}
	return s.store.Scope(id)
}

// visitorKey identifies the visitor for in-memory state such as the
// contact acknowledgment.
func (s *Server) visitorKey(c *gin.Context) string {
	if id := c.GetString(ctxVisitor); id != "" {
		return id
	}
	return "ip:" + s.hash(c.ClientIP())
}

func (s *Server) visitorTag(c *gin.Context) string {
	return s.hash(s.visitorKey(c))
}

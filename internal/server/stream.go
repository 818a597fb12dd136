package server

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/typewriter"
)

// handleTypewriter streams the hero typewriter as server-sent events, one
// independent cycler per connection.
func (s *Server) handleTypewriter(c *gin.Context) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	cycler := typewriter.New(s.script, s.clock)
	defer func() {
		cancel()
		cycler.Stop()
	}()

	frames := make(chan string)
	go cycler.Run(ctx, func(frame string) {
		select {
		case frames <- frame:
		case <-ctx.Done():
		}
	})

	gauge := s.metrics.OpenStreams.WithLabelValues("typewriter")
	gauge.Inc()
	defer gauge.Dec()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case frame := <-frames:
			c.SSEvent("frame", frame)
			return true
		}
	})
}

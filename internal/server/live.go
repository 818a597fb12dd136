package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

const liveWriteTimeout = 5 * time.Second

// Client to server message types.
const (
	msgIntersect  = "intersect"
	msgUntrack    = "untrack"
	msgToggleMode = "toggle-mode"
	msgSetAccent  = "set-accent"
)

type liveMessage struct {
	Type    string  `json:"type"`
	Section string  `json:"section,omitempty"`
	Ratio   float64 `json:"ratio,omitempty"`
	Accent  string  `json:"accent,omitempty"`
}

type themeEvent struct {
	Type       string       `json:"type"`
	Mode       theme.Mode   `json:"mode"`
	Accent     theme.Accent `json:"accent"`
	Markers    []string     `json:"markers"`
	Persistent bool         `json:"persistent"`
}

type revealEvent struct {
	Type    string `json:"type"`
	Section string `json:"section"`
	Visible bool   `json:"visible"`
}

type errorEvent struct {
	Type string `json:"type"`
	Code string `json:"code"`
}

// handleLive upgrades to a websocket carrying one page session: the
// visitor's theme controller and a reveal tracker per section.
func (s *Server) handleLive(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: s.origins,
	})
	if err != nil {
		s.logger.Warn("live upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	gauge := s.metrics.OpenStreams.WithLabelValues("live")
	gauge.Inc()
	defer gauge.Dec()

	logger := s.logger.With("visitor", s.visitorTag(c))
	ctrl := theme.NewController(s.storeFor(c), theme.NewPresentation(), logger)
	ctrl.Initialize(c.Request.Context())

	sess := &liveSession{conn: conn, ctrl: ctrl, logger: logger, metrics: s.metrics}
	err = sess.run(c.Request.Context(), reveal.DefaultSections())

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("live session ended", "error", err)
		}
	}
}

type liveSession struct {
	conn    *websocket.Conn
	ctrl    *theme.Controller
	logger  *slog.Logger
	metrics *metrics.Metrics

	writeMu sync.Mutex
}

func (ls *liveSession) run(ctx context.Context, sections []reveal.Section) error {
	trackers := reveal.NewPageRegistry(sections, func(id string, visible bool) {
		ls.metrics.RevealTransitions.WithLabelValues(id, strconv.FormatBool(visible)).Inc()
		if err := ls.send(ctx, revealEvent{Type: "reveal", Section: id, Visible: visible}); err != nil {
			ls.logger.Debug("reveal send failed", "section", id, "error", err)
		}
	})
	defer trackers.Close()

	if err := ls.send(ctx, ls.themeEvent()); err != nil {
		return err
	}

	for {
		var msg liveMessage
		if err := wsjson.Read(ctx, ls.conn, &msg); err != nil {
			return err
		}
		if err := ls.handle(ctx, trackers, msg); err != nil {
			return err
		}
	}
}

func (ls *liveSession) handle(ctx context.Context, trackers *reveal.Registry, msg liveMessage) error {
	switch msg.Type {
	case msgIntersect:
		if _, err := trackers.Observe(msg.Section, msg.Ratio); errors.Is(err, reveal.ErrTargetMissing) {
			ls.logger.Debug("ignoring intersection for untracked section", "section", msg.Section)
		}
		return nil

	case msgUntrack:
		trackers.Untrack(msg.Section)
		return nil

	case msgToggleMode:
		pref := ls.ctrl.ToggleMode(ctx)
		ls.metrics.ThemeChanges.WithLabelValues("mode", string(pref.Mode)).Inc()
		return ls.send(ctx, ls.themeEvent())

	case msgSetAccent:
		pref, err := ls.ctrl.SetAccent(ctx, msg.Accent)
		if errors.Is(err, theme.ErrInvalidAccent) {
			ls.metrics.InvalidAccents.Inc()
			return ls.send(ctx, errorEvent{Type: "error", Code: "invalid_accent"})
		}
		ls.metrics.ThemeChanges.WithLabelValues("accent", string(pref.Accent)).Inc()
		return ls.send(ctx, ls.themeEvent())

	default:
		return ls.send(ctx, errorEvent{Type: "error", Code: "unknown_type"})
	}
}

func (ls *liveSession) themeEvent() themeEvent {
	pref := ls.ctrl.Preference()
	return themeEvent{
		Type:       "theme",
		Mode:       pref.Mode,
		Accent:     pref.Accent,
		Markers:    ls.ctrl.Presentation().Markers(),
		Persistent: ls.ctrl.Persistent(),
	}
}

func (ls *liveSession) send(ctx context.Context, v any) error {
	ls.writeMu.Lock()
	defer ls.writeMu.Unlock()
	ctx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, ls.conn, v)
}

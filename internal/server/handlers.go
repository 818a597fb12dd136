package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/theme"
)

// themeView feeds the theme-controls template.
type themeView struct {
	Preference theme.Preference
	Accents    []theme.AccentInfo
}

func newThemeView(ctrl *theme.Controller) themeView {
	return themeView{Preference: ctrl.Preference(), Accents: theme.Accents()}
}

// controller loads the visitor's theme for the lifetime of one request.
func (s *Server) controller(c *gin.Context) *theme.Controller {
	ctrl := theme.NewController(s.storeFor(c), theme.NewPresentation(),
		s.logger.With("visitor", s.visitorTag(c)))
	ctrl.Initialize(c.Request.Context())
	return ctrl
}

// Home page route. The visitor's theme is applied to <body> before the
// page leaves the server, so there is no flash of the default theme.
func (s *Server) handleIndex(c *gin.Context) {
	ctrl := s.controller(c)

	// Every section starts hidden; /live reveals them as the page scrolls.
	visible := make(map[string]bool)
	for _, sec := range reveal.DefaultSections() {
		visible[sec.ID] = false
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Portfolio": s.portfolio,
		"BodyClass": ctrl.Presentation().ClassAttr(),
		"Theme":     newThemeView(ctrl),
		"Visible":   visible,
	})
}

func (s *Server) handlePrivacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"Title":     "Privacy Policy",
		"Retention": s.cfg.PreferenceRetention.String(),
	})
}

func (s *Server) handleTheme(c *gin.Context) {
	ctrl := s.controller(c)
	pref := ctrl.Preference()
	c.JSON(http.StatusOK, gin.H{
		"mode":       pref.Mode,
		"accent":     pref.Accent,
		"markers":    ctrl.Presentation().Markers(),
		"persistent": ctrl.Persistent(),
	})
}

// postedController is the controller for the theme buttons. Without a
// working store nothing survives between requests, so the preference the
// page is currently showing comes back with the form.
func (s *Server) postedController(c *gin.Context) *theme.Controller {
	ctrl := s.controller(c)
	if ctrl.Persistent() {
		return ctrl
	}
	pref := ctrl.Preference()
	if m, err := theme.ParseMode(c.PostForm("current_mode")); err == nil {
		pref.Mode = m
	}
	if a, err := theme.ParseAccent(c.PostForm("current_accent")); err == nil {
		pref.Accent = a
	}
	ctrl.Restore(pref)
	return ctrl
}

func (s *Server) handleToggleMode(c *gin.Context) {
	ctrl := s.postedController(c)
	pref := ctrl.ToggleMode(c.Request.Context())
	s.metrics.ThemeChanges.WithLabelValues("mode", string(pref.Mode)).Inc()
	s.renderTheme(c, http.StatusOK, ctrl)
}

func (s *Server) handleSetAccent(c *gin.Context) {
	ctrl := s.postedController(c)
	pref, err := ctrl.SetAccent(c.Request.Context(), c.PostForm("accent"))
	if errors.Is(err, theme.ErrInvalidAccent) {
		s.metrics.InvalidAccents.Inc()
		c.HTML(http.StatusBadRequest, "theme.html", newThemeView(ctrl))
		return
	}
	s.metrics.ThemeChanges.WithLabelValues("accent", string(pref.Accent)).Inc()
	s.renderTheme(c, http.StatusOK, ctrl)
}

// renderTheme returns the swapped controls plus an HX-Trigger event the
// page uses to update <body>.
func (s *Server) renderTheme(c *gin.Context, status int, ctrl *theme.Controller) {
	pref := ctrl.Preference()
	trigger, _ := json.Marshal(gin.H{
		"themeChanged": gin.H{
			"mode":    pref.Mode,
			"accent":  pref.Accent,
			"markers": ctrl.Presentation().Markers(),
		},
	})
	c.Header("HX-Trigger", string(trigger))
	c.HTML(status, "theme.html", newThemeView(ctrl))
}

// Handle contact form submission with HTMX. Nothing is sent anywhere; the
// visitor gets an acknowledgment that lasts contact.AckWindow.
func (s *Server) handleContact(c *gin.Context) {
	var sub contact.Submission
	if err := c.ShouldBind(&sub); err != nil {
		s.metrics.ContactSubmits.WithLabelValues("invalid").Inc()
		c.HTML(http.StatusUnprocessableEntity, "contact-error.html", gin.H{
			"Error": "Please include your name, a valid email address and a message.",
		})
		return
	}

	expires := s.ack.Submit(s.visitorKey(c), time.Now())
	s.metrics.ContactSubmits.WithLabelValues("accepted").Inc()
	s.logger.Info("contact form submitted",
		"visitor", s.visitorTag(c),
		"name", sub.Name,
		"message_len", len(sub.Message),
	)

	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"Message": "Thank you for your message! I'll get back to you soon.",
		"Expires": expires.Format(time.RFC3339),
		"Delay":   htmxDelay(contact.AckWindow),
	})
}

// handleContactForm brings the form back once the acknowledgment is over.
func (s *Server) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact-form.html", nil)
}

// htmxDelay formats d for an hx-trigger delay modifier.
func htmxDelay(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.Itoa(int(d/time.Second)) + "s"
	}
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}

func (s *Server) handleContactStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"submitted": s.ack.Active(s.visitorKey(c), time.Now()),
	})
}

func (s *Server) handleResume(c *gin.Context) {
	if _, err := os.Stat(s.cfg.ResumePath); err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.FileAttachment(s.cfg.ResumePath, "resume.pdf")
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "portfolio",
		"timestamp": time.Now(),
	})
}

package theme

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Store is the string-keyed preference storage a Controller persists to.
// Any error it returns is treated as ErrStorageUnavailable.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Controller is the single authority for mode and accent. Storage failures
// drop it into in-memory mode for the rest of its life; they are logged,
// never returned.
type Controller struct {
	mu         sync.Mutex
	store      Store
	page       *Presentation
	pref       Preference
	persistent bool
	logger     *slog.Logger
}

func NewController(store Store, page *Presentation, logger *slog.Logger) *Controller {
	if page == nil {
		page = NewPresentation()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:      store,
		page:       page,
		pref:       DefaultPreference(),
		persistent: store != nil,
		logger:     logger,
	}
}

// Initialize loads the stored preference and applies it. Absent or
// malformed values fall back to the defaults.
func (c *Controller) Initialize(ctx context.Context) Preference {
	c.mu.Lock()
	defer c.mu.Unlock()

	pref := DefaultPreference()
	if c.persistent {
		if v, ok, err := c.store.Get(ctx, KeyDarkMode); err != nil {
			c.degrade("read", KeyDarkMode, err)
		} else if ok {
			pref.Mode = modeFromStorage(v)
		}
	}
	if c.persistent {
		if v, ok, err := c.store.Get(ctx, KeyColorTheme); err != nil {
			c.degrade("read", KeyColorTheme, err)
		} else if ok {
			if a, err := ParseAccent(v); err == nil {
				pref.Accent = a
			} else {
				c.logger.Debug("ignoring stored accent", "value", v)
			}
		}
	}

	c.pref = pref
	c.applyTheme(pref)
	return pref
}

// ToggleMode flips between light and dark.
func (c *Controller) ToggleMode(ctx context.Context) Preference {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pref.Mode = c.pref.Mode.Toggle()
	c.persist(ctx, KeyDarkMode, c.pref.Mode.storageValue())
	c.applyTheme(c.pref)
	return c.pref
}

// SetAccent switches the accent. Unknown names return ErrInvalidAccent and
// leave both state and markers untouched.
func (c *Controller) SetAccent(ctx context.Context, name string) (Preference, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	a, err := ParseAccent(name)
	if err != nil {
		return c.pref, err
	}
	c.pref.Accent = a
	c.persist(ctx, KeyColorTheme, string(a))
	c.applyTheme(c.pref)
	return c.pref, nil
}

// Restore applies p as the current preference without writing it. It only
// takes effect on memory-only controllers, where the caller carries the
// state between requests; a persistent controller keeps what it loaded.
func (c *Controller) Restore(p Preference) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.persistent {
		return false
	}
	c.pref = p
	c.applyTheme(p)
	return true
}

func (c *Controller) Preference() Preference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pref
}

// Persistent reports whether changes still reach the store.
func (c *Controller) Persistent() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistent
}

func (c *Controller) Presentation() *Presentation {
	return c.page
}

// applyTheme clears every marker any accent or mode could have set before
// adding the pair for p.
func (c *Controller) applyTheme(p Preference) {
	c.page.Remove(allMarkers()...)
	c.page.Add(MarkersFor(p)...)
}

func (c *Controller) persist(ctx context.Context, key, value string) {
	if !c.persistent {
		return
	}
	if err := c.store.Set(ctx, key, value); err != nil {
		c.degrade("write", key, err)
	}
}

func (c *Controller) degrade(op, key string, err error) {
	if !errors.Is(err, ErrStorageUnavailable) {
		err = fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	c.logger.Debug("theme storage failed, keeping preferences in memory",
		"op", op, "key", key, "error", err)
	c.persistent = false
}

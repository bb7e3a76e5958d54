// Package notify delivers best-effort desktop notifications. Delivery is
// never load-bearing: the timer engine must behave identically whether a
// notification lands, is disabled, or fails.
package notify

import (
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
)

// Notifier posts a desktop notification.
type Notifier interface {
	Notify(title, body string) error
}

// Desktop sends notifications through the platform notification service.
type Desktop struct{}

func (Desktop) Notify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// Muted drops all notifications.
type Muted struct{}

func (Muted) Notify(title, body string) error { return nil }

// Safe wraps a Notifier so failures are logged and swallowed. A nil inner
// notifier is treated as muted.
type Safe struct {
	Inner  Notifier
	Logger *log.Logger
}

// Notify delivers best-effort; it never returns an error.
func (s Safe) Notify(title, body string) {
	if s.Inner == nil {
		return
	}
	if err := s.Inner.Notify(title, body); err != nil && s.Logger != nil {
		s.Logger.Warn("notification failed", "title", title, "err", err)
	}
}

// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/prep-cli/internal/config"
	"github.com/xvierd/prep-cli/internal/services"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string, icon any) error
	beep   func(freq float64, duration int) error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg, notify: beeep.Notify, beep: beeep.Beep}
}

// Notify displays a desktop notification if enabled.
func (n *Notifier) Notify(title, message string) error {
	if !n.IsEnabled() {
		return nil
	}
	if err := n.notify(title, message, ""); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if n.cfg.Sound {
		return n.beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
	return nil
}

// NotifyFocusComplete announces the end of the final focus session.
func (n *Notifier) NotifyFocusComplete(c services.FocusCompletion) error {
	title := "📚 Focus session complete"
	message := fmt.Sprintf("You stayed with it for %d minutes. Time for a break.", c.Minutes)
	return n.Notify(title, message)
}

// NotifyBreathingComplete announces the end of a breathing exercise.
func (n *Notifier) NotifyBreathingComplete(c services.BreathingCompletion) error {
	title := "🌬 Breathing complete"
	message := fmt.Sprintf("%d seconds of calm breathing done.", c.Seconds)
	return n.Notify(title, message)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

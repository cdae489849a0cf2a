// Package notify holds the single transient user-facing message surfaced
// after trade submissions. At most one notification is pending at a time:
// publishing replaces whatever was there, with no queuing and no expiry.
package notify

import "sync"

// Severity tags a notification for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// Notification is one pending transient message.
type Notification struct {
	Message  string
	Severity Severity
}

// Channel is a last-write-wins slot for the pending notification.
// The zero value is ready to use.
type Channel struct {
	mu      sync.Mutex
	pending *Notification
}

// Publish replaces any pending notification with a new one. A superseded
// notification is discarded, not queued.
func (c *Channel) Publish(message string, severity Severity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = &Notification{Message: message, Severity: severity}
}

// Dismiss clears the pending notification, if any.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
}

// Current returns the pending notification and whether one exists.
func (c *Channel) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return Notification{}, false
	}
	return *c.pending, true
}

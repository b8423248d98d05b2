// internal/wizard/notifications.go
package wizard

import (
	"time"

	"github.com/Corphon/HookForge/internal/models"
)

// DefaultNotificationTTL is how long a notification stays queued unless dismissed.
const DefaultNotificationTTL = 5 * time.Second

// Notify enqueues a notification and returns its id.
// After Close, new notifications are not timed and stay queued until dismissed.
func (s *Store) Notify(message string, severity models.Severity) uint64 {
	s.mu.Lock()
	next := s.enqueue(message, severity)
	id := s.lastID
	s.commit(next)
	return id
}

// Notifications returns the queued notifications, oldest first.
func (s *Store) Notifications() []models.Notification {
	return s.State().Notifications
}

// enqueue assigns the next id and arms its expiry timer. Caller holds s.mu.
func (s *Store) enqueue(message string, severity models.Severity) State {
	s.lastID++
	id := s.lastID

	if !s.closed {
		s.timers[id] = time.AfterFunc(s.ttl, func() {
			s.expire(id)
		})
	}

	return Reduce(s.state, notificationAdded{notification: models.Notification{
		ID:       id,
		Message:  message,
		Severity: severity,
	}})
}

func (s *Store) expire(id uint64) {
	s.mu.Lock()
	if _, pending := s.timers[id]; !pending {
		// dismissed or closed meanwhile
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	s.commit(Reduce(s.state, DismissNotification{ID: id}))
}

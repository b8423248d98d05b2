// internal/wizard/store.go
package wizard

import (
	"sync"
	"time"

	"github.com/Corphon/HookForge/internal/models"
	"github.com/Corphon/HookForge/internal/utils"
)

// Persistence stores the session data that outlives the process.
// Absent keys are not errors: LoadAngles returns nil and LoadTheme returns "".
type Persistence interface {
	LoadAngles() (models.AngleSet, error)
	SaveAngles(angles models.AngleSet) error
	LoadTheme() (models.Theme, error)
	SaveTheme(theme models.Theme) error
}

// Store owns the session state. Dispatch is the only writer; persistence,
// notification ids, expiry timers and subscriber fan-out all happen here.
type Store struct {
	mu    sync.Mutex
	state State

	// serializes subscriber calls so they observe states in dispatch order
	notifyMu sync.Mutex

	persistence    Persistence
	preferredTheme models.Theme
	ttl            time.Duration
	logger         *utils.Logger

	lastID uint64
	timers map[uint64]*time.Timer

	subscribers map[int]func(State)
	nextSubID   int
	closed      bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithNotificationTTL overrides DefaultNotificationTTL.
func WithNotificationTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPreferredTheme sets the theme used when none is stored.
func WithPreferredTheme(theme models.Theme) StoreOption {
	return func(s *Store) {
		if theme.Valid() {
			s.preferredTheme = theme
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(logger *utils.Logger) StoreOption {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store holding NewState. persistence may be nil.
func NewStore(persistence Persistence, opts ...StoreOption) *Store {
	s := &Store{
		state:          NewState(),
		persistence:    persistence,
		preferredTheme: models.ThemeLight,
		ttl:            DefaultNotificationTTL,
		logger:         utils.GetLogger(),
		timers:         make(map[uint64]*time.Timer),
		subscribers:    make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Theme = s.preferredTheme
	return s
}

// State returns a snapshot of the committed state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies action and returns the committed state.
func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	next := s.apply(action)
	return s.commit(next)
}

// BeginOperation sets op busy unless it already is.
// It returns false when op is in flight, leaving state untouched.
func (s *Store) BeginOperation(op models.Operation) bool {
	s.mu.Lock()
	if s.state.IsBusy(op) {
		s.mu.Unlock()
		return false
	}
	s.commit(Reduce(s.state, SetBusy{Operation: op, Busy: true}))
	return true
}

// EndOperation clears the busy flag of op.
func (s *Store) EndOperation(op models.Operation) {
	s.Dispatch(SetBusy{Operation: op, Busy: false})
}

// Subscribe registers fn to receive every committed state.
// fn runs synchronously after each dispatch and must not call back into the Store.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

// Close stops pending expiry timers. Later dispatches still apply, but
// notifications queued after Close no longer expire on their own.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

// apply resolves side-effecting actions and reduces. Caller holds s.mu.
func (s *Store) apply(action Action) State {
	switch a := action.(type) {
	case RestoreFromStorage:
		return Reduce(s.state, s.restore())
	case EnqueueNotification:
		return s.enqueue(a.Message, a.Severity)
	case DismissNotification:
		if t, ok := s.timers[a.ID]; ok {
			t.Stop()
			delete(s.timers, a.ID)
		}
		return Reduce(s.state, a)
	case SetAngles:
		next := Reduce(s.state, a)
		s.saveAngles(next.Angles)
		return next
	case SetTheme:
		next := Reduce(s.state, a)
		if a.Theme.Valid() {
			s.saveTheme(next.Theme)
		} else {
			s.logger.Warn("Ignoring unknown theme", map[string]interface{}{"theme": string(a.Theme)})
		}
		return next
	default:
		return Reduce(s.state, action)
	}
}

// commit installs next, releases s.mu and fans out to subscribers.
// Caller holds s.mu.
func (s *Store) commit(next State) State {
	s.state = next
	snapshot := next.Clone()

	subs := make([]func(State), 0, len(s.subscribers))
	for i := 0; i < s.nextSubID; i++ {
		if fn, ok := s.subscribers[i]; ok {
			subs = append(subs, fn)
		}
	}

	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
	return snapshot
}

func (s *Store) restore() restored {
	var r restored
	if s.persistence == nil {
		r.theme = s.preferredTheme
		return r
	}

	angles, err := s.persistence.LoadAngles()
	if err != nil {
		s.logger.Warn("Failed to load stored angles", map[string]interface{}{"error": err})
	} else if angles != nil {
		r.angles = angles.Normalize()
	}

	theme, err := s.persistence.LoadTheme()
	if err != nil {
		s.logger.Warn("Failed to load stored theme", map[string]interface{}{"error": err})
	}
	if !theme.Valid() {
		theme = s.preferredTheme
	}
	r.theme = theme

	return r
}

func (s *Store) saveAngles(angles models.AngleSet) {
	if s.persistence == nil {
		return
	}
	if err := s.persistence.SaveAngles(angles); err != nil {
		s.logger.Error("Failed to persist angles", map[string]interface{}{"error": err})
	}
}

func (s *Store) saveTheme(theme models.Theme) {
	if s.persistence == nil {
		return
	}
	if err := s.persistence.SaveTheme(theme); err != nil {
		s.logger.Error("Failed to persist theme", map[string]interface{}{"error": err})
	}
}

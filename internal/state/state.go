package state

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sukalov/yoke/internal/logger"
)

var ErrNoSession = errors.New("no playback session")

// Session is one song playing for one chat. The playhead is Offset while
// paused, and Offset plus the time since StartedAt while running.
type Session struct {
	ChatID    int64         `json:"chat_id"`
	Username  string        `json:"username"`
	SongID    string        `json:"song_id"`
	SongName  string        `json:"song_name"`
	StartedAt time.Time     `json:"started_at"`
	Offset    time.Duration `json:"offset"`
	Paused    bool          `json:"paused"`
}

// Position is the playhead at now, never negative.
func (s Session) Position(now time.Time) time.Duration {
	pos := s.Offset
	if !s.Paused {
		pos += now.Sub(s.StartedAt)
	}
	if pos < 0 {
		return 0
	}
	return pos
}

// Store persists the session list.
type Store interface {
	SaveSessions(ctx context.Context, sessions []Session) error
	LoadSessions(ctx context.Context) ([]Session, error)
}

type StateManager struct {
	mu       sync.RWMutex
	sessions []Session
	store    Store
	now      func() time.Time
}

func NewStateManager(store Store) *StateManager {
	return &StateManager{
		sessions: []Session{},
		store:    store,
		now:      time.Now,
	}
}

// Init loads the sessions saved by a previous run.
func (sm *StateManager) Init(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sessions, err := sm.store.LoadSessions(ctx)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	sm.sessions = sessions
	return nil
}

// Start begins playback from offset, replacing any session of the same chat.
func (sm *StateManager) Start(ctx context.Context, session Session, offset time.Duration) (Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session.StartedAt = sm.now()
	session.Offset = offset
	session.Paused = false

	kept := make([]Session, 0, len(sm.sessions)+1)
	for _, s := range sm.sessions {
		if s.ChatID != session.ChatID {
			kept = append(kept, s)
		}
	}
	sm.sessions = append(kept, session)

	return session, sm.sync(ctx)
}

func (sm *StateManager) Pause(ctx context.Context, chatID int64) (Session, error) {
	return sm.update(ctx, chatID, func(s *Session, now time.Time) {
		if s.Paused {
			return
		}
		s.Offset = s.Position(now)
		s.Paused = true
	})
}

func (sm *StateManager) Resume(ctx context.Context, chatID int64) (Session, error) {
	return sm.update(ctx, chatID, func(s *Session, now time.Time) {
		if !s.Paused {
			return
		}
		s.StartedAt = now
		s.Paused = false
	})
}

// Seek moves the playhead to pos, keeping the paused state.
func (sm *StateManager) Seek(ctx context.Context, chatID int64, pos time.Duration) (Session, error) {
	if pos < 0 {
		pos = 0
	}
	return sm.update(ctx, chatID, func(s *Session, now time.Time) {
		s.Offset = pos
		s.StartedAt = now
	})
}

// Stop ends the chat's session and returns it.
func (sm *StateManager) Stop(ctx context.Context, chatID int64) (Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for i, s := range sm.sessions {
		if s.ChatID == chatID {
			sm.sessions = append(sm.sessions[:i], sm.sessions[i+1:]...)
			return s, sm.sync(ctx)
		}
	}
	return Session{}, ErrNoSession
}

func (sm *StateManager) Get(chatID int64) (Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for _, s := range sm.sessions {
		if s.ChatID == chatID {
			return s, true
		}
	}
	return Session{}, false
}

// Position is the chat's playhead now.
func (sm *StateManager) Position(chatID int64) (Session, time.Duration, error) {
	s, ok := sm.Get(chatID)
	if !ok {
		return Session{}, 0, ErrNoSession
	}
	return s, s.Position(sm.now()), nil
}

// GetAll returns every session, oldest first.
func (sm *StateManager) GetAll() []Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	all := append([]Session(nil), sm.sessions...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].StartedAt.Before(all[j].StartedAt) })
	return all
}

func (sm *StateManager) Clear(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.sessions = []Session{}
	return sm.sync(ctx)
}

func (sm *StateManager) update(ctx context.Context, chatID int64, fn func(s *Session, now time.Time)) (Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for i := range sm.sessions {
		if sm.sessions[i].ChatID == chatID {
			fn(&sm.sessions[i], sm.now())
			return sm.sessions[i], sm.sync(ctx)
		}
	}
	return Session{}, ErrNoSession
}

// sync must be called with sm.mu held.
func (sm *StateManager) sync(ctx context.Context) error {
	if err := sm.store.SaveSessions(ctx, sm.sessions); err != nil {
		logger.Error(fmt.Sprintf("error happened while saving sessions: %v", err))
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

package recorder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/cubelock"
	"github.com/SeamusWaldron/cubelock/internal/storage"
)

var (
	ErrSessionActive   = errors.New("recorder: session already in progress")
	ErrNoActiveSession = errors.New("recorder: no session in progress")
)

// SessionState represents the current state of a journal session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// unlockPayload is stored with each unlock event.
type unlockPayload struct {
	MoveIndex int      `json:"move_index"`
	Sequence  []string `json:"sequence"`
}

// Session journals one mount of the cube page.
type Session struct {
	stateFile *StateFile
	logger    *log.Logger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveIndex int
	unlocks   int

	sessionRepo *storage.SessionRepository
	moveRepo    *storage.MoveRepository
	eventRepo   *storage.EventRepository
}

// NewSession creates a session manager. stateFile and logger may be nil.
func NewSession(db *storage.DB, stateFile *StateFile, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		stateFile:   stateFile,
		logger:      logger,
		state:       StateIdle,
		sessionRepo: storage.NewSessionRepository(db),
		moveRepo:    storage.NewMoveRepository(db),
		eventRepo:   storage.NewEventRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// ElapsedMs returns the time since session start in milliseconds.
func (s *Session) ElapsedMs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateRecording {
		return 0
	}
	return time.Since(s.startTime).Milliseconds()
}

// MoveCount returns the number of moves journaled so far.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// Unlocks returns the number of unlocks journaled so far.
func (s *Session) Unlocks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unlocks
}

// Start opens a new journal session. A session left open by an earlier
// run is closed first.
func (s *Session) Start(appVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrSessionActive
	}

	s.closeDangling()

	sessionID, err := s.sessionRepo.Create(appVersion)
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.sessionID = sessionID
	s.startTime = time.Now()
	s.moveIndex = 0
	s.unlocks = 0
	s.state = StateRecording

	if s.stateFile != nil {
		if err := s.stateFile.SetActiveSession(sessionID); err != nil {
			s.logger.Warn("failed to update state file", "error", err)
		}
	}

	s.logger.Debug("journal session started", "session", sessionID)
	return sessionID, nil
}

func (s *Session) closeDangling() {
	if s.stateFile == nil {
		return
	}
	prev := s.stateFile.ActiveSessionID()
	if prev == "" {
		return
	}
	if err := s.sessionRepo.End(prev); err != nil {
		s.logger.Warn("failed to close previous session", "session", prev, "error", err)
		return
	}
	s.logger.Info("closed interrupted session", "session", prev)
}

// RecordMove appends a completed move. Moves outside a session are ignored.
func (s *Session) RecordMove(m cubelock.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return nil
	}

	tsMs := m.Time.Sub(s.startTime).Milliseconds()
	if m.Time.IsZero() || tsMs < 0 {
		tsMs = time.Since(s.startTime).Milliseconds()
	}

	if _, err := s.moveRepo.Create(s.sessionID, s.moveIndex, tsMs, m); err != nil {
		return fmt.Errorf("failed to store move: %w", err)
	}
	s.moveIndex++
	return nil
}

// MarkUnlocked records that the secret sequence was entered.
func (s *Session) MarkUnlocked(sequence []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNoActiveSession
	}

	payload, err := json.Marshal(unlockPayload{MoveIndex: s.moveIndex - 1, Sequence: sequence})
	if err != nil {
		return fmt.Errorf("failed to encode unlock: %w", err)
	}

	tsMs := time.Since(s.startTime).Milliseconds()
	if _, err := s.eventRepo.Create(s.sessionID, tsMs, storage.EventUnlock, string(payload)); err != nil {
		return fmt.Errorf("failed to store unlock: %w", err)
	}
	if err := s.sessionRepo.MarkUnlocked(s.sessionID); err != nil {
		return err
	}

	s.unlocks++
	return nil
}

// End closes the current session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNoActiveSession
	}

	if err := s.sessionRepo.End(s.sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded

	if s.stateFile != nil {
		if err := s.stateFile.ClearActiveSession(); err != nil {
			s.logger.Warn("failed to update state file", "error", err)
		}
	}

	s.logger.Debug("journal session ended", "session", s.sessionID, "moves", s.moveIndex)
	return nil
}

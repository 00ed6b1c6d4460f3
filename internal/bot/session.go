package bot

import (
	"context"
	"sync"

	"twentyone/internal/game"
)

// Session is one chat's round in progress. The round runs in its own
// goroutine and blocks in Decide until a button press arrives.
type Session struct {
	ChatID int64
	Round  *game.Round

	decisions chan game.Action
	prompt    func(cards []game.Card, total int)
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSession(ctx context.Context, chatID int64, round *game.Round, prompt func(cards []game.Card, total int)) *Session {
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ChatID:    chatID,
		Round:     round,
		decisions: make(chan game.Action),
		prompt:    prompt,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Decide shows the hand and waits for the player's button press.
func (s *Session) Decide(ctx context.Context, cards []game.Card, total int) (game.Action, error) {
	if s.prompt != nil {
		s.prompt(cards, total)
	}

	select {
	case a := <-s.decisions:
		return a, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// Submit hands a decision to the round, waiting until Decide picks it up.
// It reports false once the session has ended.
func (s *Session) Submit(a game.Action) bool {
	select {
	case s.decisions <- a:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Start runs the round in the background and calls done with the result.
func (s *Session) Start(done func(game.Outcome, error)) {
	go func() {
		defer s.cancel()
		outcome, err := s.Round.Play(s.ctx, s)
		done(outcome, err)
	}()
}

func (s *Session) Stop() {
	s.cancel()
}

// Manager управляет активными играми
type Manager struct {
	sessions map[int64]*Session
	mu       sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

func (m *Manager) Get(chatID int64) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[chatID]
}

// Set stores s for its chat and stops whatever session it replaces.
func (m *Manager) Set(s *Session) {
	m.mu.Lock()
	old := m.sessions[s.ChatID]
	m.sessions[s.ChatID] = s
	m.mu.Unlock()

	if old != nil && old != s {
		old.Stop()
	}
}

// Delete removes s if it is still the chat's current session.
func (m *Manager) Delete(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[s.ChatID] == s {
		delete(m.sessions, s.ChatID)
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

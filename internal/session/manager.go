package session

import (
	"context"
	"sync"
)

// Manager keeps one Practice per guardian.
type Manager struct {
	cfg Config

	mu        sync.Mutex
	practices map[string]*Practice
}

// NewManager creates a manager whose practices share cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, practices: make(map[string]*Practice)}
}

// Get returns the guardian's practice, starting one if needed.
func (m *Manager) Get(ctx context.Context, owner Owner) *Practice {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.practices[owner.GuardianID]; ok {
		return p
	}
	p := NewPractice(ctx, m.cfg, owner)
	m.practices[owner.GuardianID] = p
	return p
}

// Lookup returns the guardian's practice if one is running.
func (m *Manager) Lookup(guardianID string) (*Practice, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.practices[guardianID]
	return p, ok
}

// SignOut sends the pending summary, if any, and drops the guardian's
// practice. The practice is dropped even when the summary fails; the
// send error is returned for the caller to log.
func (m *Manager) SignOut(ctx context.Context, guardianID, to string) (bool, error) {
	m.mu.Lock()
	p, ok := m.practices[guardianID]
	delete(m.practices, guardianID)
	m.mu.Unlock()

	if !ok {
		return false, nil
	}
	sent, err := p.SendSummary(ctx, to)
	p.Close(ctx)
	return sent, err
}

// Len returns the number of running practices.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.practices)
}

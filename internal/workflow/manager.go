package workflow

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/vizora/internal/metrics"
	"github.com/maheshrc27/vizora/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrNotFound = errors.New("composition not found")

// Manager is the registry of open compositions. Closed compositions stay
// registered until the next sweep so that late calls get ErrClosed instead of
// ErrNotFound.
type Manager struct {
	mu           sync.Mutex
	compositions map[string]*Composition
	metrics      metrics.MetricsCollector
	now          func() time.Time
}

func NewManager(mc metrics.MetricsCollector) *Manager {
	if mc == nil {
		mc = metrics.Nop{}
	}
	return &Manager{
		compositions: make(map[string]*Composition),
		metrics:      mc,
		now:          time.Now,
	}
}

// Open starts a new composition for user.
func (m *Manager) Open(user *models.User) (*Composition, error) {
	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	c := New(id, user)
	c.now = m.now
	c.lastActive = m.now()
	c.onTransition = func(from, to Stage) {
		m.metrics.RecordStageTransition(int(from), int(to))
	}

	m.mu.Lock()
	m.compositions[id] = c
	m.mu.Unlock()
	return c, nil
}

// Get returns the composition when it exists and belongs to userID.
func (m *Manager) Get(id, userID string) (*Composition, error) {
	m.mu.Lock()
	c, ok := m.compositions[id]
	m.mu.Unlock()

	if !ok || c.UserID() != userID {
		return nil, ErrNotFound
	}
	if c.Closed() {
		return nil, ErrClosed
	}
	return c, nil
}

// Close discards a composition.
func (m *Manager) Close(id, userID string) error {
	c, err := m.Get(id, userID)
	if err != nil {
		return err
	}
	c.Close()
	return nil
}

// CloseAllFor closes every composition owned by userID, used on logout.
func (m *Manager) CloseAllFor(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.compositions {
		if c.UserID() == userID {
			c.Close()
		}
	}
}

// SweepIdle closes compositions untouched for longer than maxIdle and drops
// closed ones from the registry. It returns the number dropped.
func (m *Manager) SweepIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, c := range m.compositions {
		if c.Closed() || c.idleSince().Before(cutoff) {
			c.Close()
			delete(m.compositions, id)
			removed++
		}
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.compositions)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/maheshrc27/vizora/internal/models"
)

var ErrSchedulerStopped = errors.New("connect scheduler is not running")

// ConnectFunc completes a pending platform connection.
type ConnectFunc func(ctx context.Context, userID string, platform models.Platform) error

// ConnectScheduler runs platform connections after the simulated OAuth delay.
type ConnectScheduler interface {
	ScheduleConnect(ctx context.Context, userID string, platform models.Platform, delay time.Duration) error
	// CancelConnects drops every pending connection of userID.
	CancelConnects(ctx context.Context, userID string)
}

type connectKey struct {
	userID   string
	platform models.Platform
}

// LocalConnectScheduler keeps pending connections as in-process timers.
// Nothing is scheduled before Start.
type LocalConnectScheduler struct {
	mu      sync.Mutex
	handler ConnectFunc
	pending map[connectKey]*time.Timer
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewLocalConnectScheduler() *LocalConnectScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &LocalConnectScheduler{
		pending: make(map[connectKey]*time.Timer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start sets the function that completes connections.
func (s *LocalConnectScheduler) Start(handler ConnectFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
}

// ScheduleConnect runs the handler after delay. A second request for the same
// user and platform while one is pending is ignored.
func (s *LocalConnectScheduler) ScheduleConnect(ctx context.Context, userID string, platform models.Platform, delay time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handler == nil || s.ctx.Err() != nil {
		return ErrSchedulerStopped
	}

	key := connectKey{userID: userID, platform: platform}
	if _, ok := s.pending[key]; ok {
		return nil
	}

	handler := s.handler
	s.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		current, ok := s.pending[key]
		if ok && current == timer {
			delete(s.pending, key)
		}
		s.mu.Unlock()
		if !ok || current != timer {
			return
		}

		if err := handler(s.ctx, userID, platform); err != nil {
			slog.Info(err.Error())
		}
	})
	s.pending[key] = timer
	return nil
}

func (s *LocalConnectScheduler) CancelConnects(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.pending {
		if key.userID != userID {
			continue
		}
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, key)
	}
}

func (s *LocalConnectScheduler) Pending(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.pending {
		if key.userID == userID {
			n++
		}
	}
	return n
}

// Close stops pending timers and waits for running handlers.
func (s *LocalConnectScheduler) Close() {
	s.mu.Lock()
	s.cancel()
	for key, timer := range s.pending {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.pending, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

package service

import (
	"context"
	"time"
)

// clockRunner drives Tick for one session
type clockRunner struct {
	cancel context.CancelFunc
}

// startClock launches the session clock; sess.Mu must be held
func (s *gameServiceImpl) startClock(sess *Session) {
	if sess.clock != nil || !sess.Game.TickDriven() {
		return
	}
	interval := sess.Game.TickInterval()
	if interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(s.ctx)
	sess.clock = &clockRunner{cancel: cancel}

	s.clocks.Add(1)
	go s.runClock(ctx, sess, interval)
}

// stopClock cancels the session clock; sess.Mu must be held. A runner
// blocked on the lock sees the cancellation once it gets it and exits
// without ticking.
func (s *gameServiceImpl) stopClock(sess *Session) {
	if sess.clock == nil {
		return
	}
	sess.clock.cancel()
	sess.clock = nil
}

func (s *gameServiceImpl) runClock(ctx context.Context, sess *Session, interval time.Duration) {
	defer s.clocks.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		sess.Mu.Lock()
		if ctx.Err() != nil {
			sess.Mu.Unlock()
			return
		}
		snap, _ := s.tickLocked(sess)
		next := sess.Game.TickInterval()
		done := snap.Status.Terminal()
		if done {
			s.stopClock(sess)
		}
		sess.Mu.Unlock()

		if done {
			s.logger.Debugw("clock stopped", "session", sess.ID, "game", snap.Kind, "status", snap.Status, "score", snap.Score)
			return
		}
		// Stacking speeds up as the level rises
		if next != interval && next > 0 {
			interval = next
			ticker.Reset(interval)
		}
	}
}

package contentcache

import (
	"context"

	"github.com/sirupsen/logrus"
)

// PurgeExpired removes every expired entry from both namespaces and returns
// how many were removed. The background sweep calls it every SweepInterval.
func (c *core) PurgeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.purgeExpiredLocked(c.clock.Now())
}

func (c *core) startSweep(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.sweepLoop(ctx)
}

func (c *core) sweepLoop(ctx context.Context) {
	defer close(c.done)

	for {
		tick := make(chan struct{}, 1)
		t := c.clock.AfterFunc(c.cfg.SweepInterval, func() {
			select {
			case tick <- struct{}{}:
			default:
			}
		})

		select {
		case <-ctx.Done():
			t.Stop()
			logrus.Debug("[CONTENT_CACHE] Sweep stopped")
			return
		case <-tick:
			if n := c.PurgeExpired(); n > 0 {
				logrus.Debugf("[CONTENT_CACHE] Sweep removed %d expired entries", n)
			}
		}
	}
}

// Close stops the background sweep and cancels pending warming checks.
// Entries stay readable. Close is safe to call more than once.
func (c *core) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		<-c.done

		c.mu.Lock()
		for wk, w := range c.warming {
			w.timer.Stop()
			delete(c.warming, wk)
		}
		c.mu.Unlock()
		logrus.Info("[CONTENT_CACHE] Closed")
	})
}

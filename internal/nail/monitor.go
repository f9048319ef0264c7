package nail

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultSettleDelay  = 500 * time.Millisecond
	DefaultPollInterval = 250 * time.Millisecond
)

// Clock lets tests drive the monitor loop without real timers.
type Clock interface {
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// monitor is the handle of one running poll loop.
type monitor struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// wait blocks until the loop goroutine has returned. Safe on nil.
func (m *monitor) wait() {
	if m == nil {
		return
	}
	<-m.done
}

// startMonitorLocked replaces any running loop with a fresh one and returns
// the replaced handle so the caller can wait on it after unlocking.
func (b *Booster) startMonitorLocked() *monitor {
	old := b.stopMonitorLocked()

	ctx, cancel := context.WithCancel(context.Background())
	m := &monitor{cancel: cancel, done: make(chan struct{})}
	b.monitor = m
	go b.runMonitor(ctx, m.done)
	return old
}

// stopMonitorLocked cancels the running loop, if any. The cancel happens
// under b.mu, so an iteration that acquires the lock afterwards sees the
// cancelled context and does nothing.
func (b *Booster) stopMonitorLocked() *monitor {
	m := b.monitor
	if m == nil {
		return nil
	}
	m.cancel()
	b.monitor = nil
	return m
}

func (b *Booster) runMonitor(ctx context.Context, done chan struct{}) {
	defer close(done)

	if !b.sleep(ctx, b.settleDelay) {
		return
	}
	for {
		b.tick(ctx)
		if !b.sleep(ctx, b.pollInterval) {
			return
		}
	}
}

func (b *Booster) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-b.clock.After(d):
		return ctx.Err() == nil
	}
}

func (b *Booster) tick(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	b.pollLocked()
}

// Poll runs a single monitor iteration. The loop calls it on every tick;
// callers driving the host by hand can call it directly.
func (b *Booster) Poll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pollLocked()
}

func (b *Booster) pollLocked() {
	if !b.ledger.Active() || b.restorePending {
		return
	}
	mod, ok := b.modules.NailUpgrades()
	if !ok {
		b.logger.Warn("upgrade module unavailable, retrying next tick")
		b.metrics.skip(skipModule)
		return
	}
	gained := mod.TakeUnclaimed()
	if gained <= 0 {
		return
	}
	b.ledger.Add(gained)
	b.metrics.absorbedUpgrades(gained)
	b.metrics.setBackup(b.ledger.Count())
	b.logger.Debug("absorbed new upgrades",
		zap.Int("gained", gained),
		zap.Int("backup", b.ledger.Count()))

	player, ok := b.player.PlayerData()
	if !ok {
		b.logger.Warn("player data unavailable, boost not refreshed")
		b.metrics.skip(skipPlayer)
		return
	}
	b.reconciler.Apply(player, b.baseline(), b.ledger.Count(), mod.DamagePerUpgrade())
}

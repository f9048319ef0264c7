// Package nail raises the player's nail to include every unclaimed nail
// upgrade while they fight in a boss scene, and puts the true nail back the
// moment they leave.
//
// A Booster owns three pieces of state: the baseline (the player's real nail,
// captured only outside boss scenes), the backup ledger (upgrades withheld
// from the upgrade module while boosted), and the monitor loop that folds
// upgrades picked up mid-fight into the boost. Every handler and every loop
// iteration runs under one mutex, so they never interleave.
package nail

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/smartnail/internal/scenes"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

const Version = "1.0.0"

var (
	ErrModuleMissing     = errors.New("nail upgrade module not registered")
	ErrPlayerUnavailable = errors.New("player data not loaded")
)

const (
	skipModule = "module_missing"
	skipPlayer = "player_unavailable"
)

type State int

const (
	StateNormal State = iota
	StateEntering
	StateBoosted
	StateExiting
)

func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateEntering:
		return "entering"
	case StateBoosted:
		return "boosted"
	case StateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

type Config struct {
	Player     PlayerSource
	Modules    ModuleSource
	Broadcast  Broadcaster
	Scenes     SceneSource
	Classifier *scenes.Classifier
	Settings   *settings.Store
	Logger     *zap.Logger
	Metrics    *Metrics
	Clock      Clock

	SettleDelay  time.Duration
	PollInterval time.Duration
}

type Booster struct {
	mu sync.Mutex

	player     PlayerSource
	modules    ModuleSource
	scenes     SceneSource
	classifier *scenes.Classifier
	settings   *settings.Store
	reconciler Reconciler
	logger     *zap.Logger
	metrics    *Metrics
	clock      Clock

	settleDelay  time.Duration
	pollInterval time.Duration

	state     State
	local     settings.Local
	ledger    Ledger
	newGame   bool
	lastSaved *Stats
	monitor   *monitor

	// restorePending is set while the backup waits for the module to return.
	restorePending bool

	unsubscribe func()
}

func NewBooster(cfg Config) *Booster {
	b := &Booster{
		player:       cfg.Player,
		modules:      cfg.Modules,
		scenes:       cfg.Scenes,
		classifier:   cfg.Classifier,
		settings:     cfg.Settings,
		reconciler:   Reconciler{Broadcast: cfg.Broadcast, Metrics: cfg.Metrics},
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		clock:        cfg.Clock,
		settleDelay:  cfg.SettleDelay,
		pollInterval: cfg.PollInterval,
		local:        settings.DefaultLocal(),
		ledger:       NewLedger(),
	}
	if b.classifier == nil {
		b.classifier = scenes.NewClassifier()
	}
	if b.settings == nil {
		b.settings = settings.NewStore(settings.DefaultGlobal())
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	b.logger = b.logger.Named("nail")
	if b.clock == nil {
		b.clock = realClock{}
	}
	if b.settleDelay <= 0 {
		b.settleDelay = DefaultSettleDelay
	}
	if b.pollInterval <= 0 {
		b.pollInterval = DefaultPollInterval
	}
	b.metrics.setBackup(NoBackup)
	return b
}

func (b *Booster) Version() string { return Version }

func (b *Booster) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Backup is the ledger count, NoBackup when idle.
func (b *Booster) Backup() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger.Count()
}

func (b *Booster) Baseline() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.baseline()
}

func (b *Booster) Settings() *settings.Store { return b.settings }

func (b *Booster) IsBoostScene(scene string) bool {
	return b.classifier.IsBoostScene(scene, b.settings)
}

func (b *Booster) baseline() Stats {
	return Stats{
		Level:  b.local.StoredNailLevel,
		Damage: b.local.StoredNailDamage,
		Honed:  b.local.StoredHonedNail,
	}
}

// Attach installs the booster's handlers on events. A second call is a no-op.
func (b *Booster) Attach(events Events) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil {
		return
	}
	b.unsubscribe = events.Subscribe(Handlers{
		LoadLocal:          b.OnLoadLocal,
		SaveLocal:          b.OnSaveLocal,
		BeforeStartNewGame: b.OnBeforeStartNewGame,
		EnterGame:          b.OnEnterGame,
		Save:               b.OnSave,
		TransitionBegin:    b.OnTransitionBegin,
		SceneLoaded:        b.OnSceneLoad,
	})
}

// Detach removes the handlers. An active boost is restored first so the
// upgrade module gets its count back before the booster lets go of it.
func (b *Booster) Detach() {
	b.mu.Lock()
	unsubscribe := b.unsubscribe
	b.unsubscribe = nil
	var stopped *monitor
	if b.ledger.Active() {
		stopped = b.restoreLocked()
	}
	if m := b.stopMonitorLocked(); m != nil {
		stopped = m
	}
	b.mu.Unlock()

	stopped.wait()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Close stops the monitor loop without touching the ledger.
func (b *Booster) Close() {
	b.mu.Lock()
	m := b.stopMonitorLocked()
	b.mu.Unlock()
	m.wait()
}

func (b *Booster) OnBeforeStartNewGame() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.newGame = true
}

func (b *Booster) OnEnterGame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.newGame {
		b.newGame = false
		b.captureLocked("new game")
		return
	}
	// Saves made before the mod was installed carry no baseline yet.
	if !b.local.Captured() && !b.ledger.Active() {
		b.captureLocked("first load")
	}
}

// OnSave refreshes the baseline after the game saves, but only outside boost
// and menu scenes and only when the nail actually changed.
func (b *Booster) OnSave(slot int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	player, ok := b.player.PlayerData()
	if !ok {
		return
	}
	scene := b.scenes.ActiveScene()
	if b.classifier.Excluded(scene) || b.IsBoostScene(scene) || b.ledger.Active() {
		b.logger.Debug("save inside boost scope, baseline kept",
			zap.Int("slot", slot), zap.String("scene", scene))
		return
	}
	current := ReadStats(player)
	if b.lastSaved != nil && *b.lastSaved == current {
		return
	}
	b.logger.Debug("saving nail stats", zap.Int("slot", slot))
	b.captureFromLocked(current, "save")
}

func (b *Booster) captureLocked(reason string) {
	player, ok := b.player.PlayerData()
	if !ok {
		b.logger.Warn("cannot capture baseline", zap.String("reason", reason), zap.Error(ErrPlayerUnavailable))
		b.metrics.skip(skipPlayer)
		return
	}
	b.captureFromLocked(ReadStats(player), reason)
}

func (b *Booster) captureFromLocked(s Stats, reason string) {
	b.local = settings.Local{
		StoredNailLevel:  s.Level,
		StoredNailDamage: s.Damage,
		StoredHonedNail:  s.Honed,
	}
	saved := s
	b.lastSaved = &saved
	b.logger.Info("stored baseline", zap.String("reason", reason), zap.Stringer("stats", s))
}

// OnSceneLoad boosts on arrival in a boss scene. The module counter is
// snapshotted only when no backup is active, so reloads and boss-to-boss
// hops continue the same episode.
func (b *Booster) OnSceneLoad(scene string) {
	b.mu.Lock()
	stopped := b.sceneLoadLocked(scene)
	b.mu.Unlock()
	stopped.wait()
}

func (b *Booster) sceneLoadLocked(scene string) *monitor {
	if b.classifier.Excluded(scene) {
		return nil
	}
	player, ok := b.player.PlayerData()
	if !ok {
		b.metrics.skip(skipPlayer)
		return nil
	}

	if !b.IsBoostScene(scene) {
		if !b.ledger.Active() {
			return nil
		}
		if b.restorePending {
			return b.restoreLocked()
		}
		// The transition hook restores; reaching here means it did not run.
		b.logger.Warn("boost still active in normal scene, dropping backup",
			zap.String("scene", scene), zap.Int("backup", b.ledger.Count()))
		b.ledger.Clear()
		b.metrics.setBackup(NoBackup)
		// Boosted values must not survive into a save as the new baseline.
		b.reconciler.Write(player, b.baseline())
		b.state = StateNormal
		return b.stopMonitorLocked()
	}

	mod, ok := b.modules.NailUpgrades()
	if !ok {
		b.logger.Warn("boost skipped", zap.String("scene", scene), zap.Error(ErrModuleMissing))
		b.metrics.skip(skipModule)
		return nil
	}

	b.state = StateEntering
	b.restorePending = false
	if !b.ledger.Active() {
		if !b.local.Captured() {
			b.captureFromLocked(ReadStats(player), "boost without baseline")
		}
		b.ledger.Begin(mod.TakeUnclaimed())
		b.metrics.episodeStarted()
		b.logger.Info("backed up unclaimed upgrades",
			zap.String("scene", scene), zap.Int("backup", b.ledger.Count()))
	}
	b.metrics.setBackup(b.ledger.Count())

	boosted := b.reconciler.Apply(player, b.baseline(), b.ledger.Count(), mod.DamagePerUpgrade())
	b.logger.Debug("boost applied", zap.String("scene", scene), zap.Stringer("stats", boosted))

	old := b.startMonitorLocked()
	b.state = StateBoosted
	return old
}

// OnTransitionBegin restores the baseline when the destination is not a
// boost scene. It returns only after the monitor loop has exited, so no
// stale tick can re-apply the boost in the new scene.
func (b *Booster) OnTransitionBegin(destination string) {
	b.mu.Lock()
	var stopped *monitor
	if b.ledger.Active() && !b.IsBoostScene(destination) {
		b.logger.Debug("leaving boost scope", zap.String("destination", destination))
		stopped = b.restoreLocked()
	}
	b.mu.Unlock()
	stopped.wait()
}

// restoreLocked puts the baseline back and hands the backup to the upgrade
// module. Without the module only the handback waits; the ledger stays
// active and the next scene event or Detach retries it.
func (b *Booster) restoreLocked() *monitor {
	b.state = StateExiting
	if player, ok := b.player.PlayerData(); ok {
		b.reconciler.Write(player, b.baseline())
	} else {
		b.logger.Warn("baseline not written back", zap.Error(ErrPlayerUnavailable))
		b.metrics.skip(skipPlayer)
	}
	stopped := b.stopMonitorLocked()

	mod, ok := b.modules.NailUpgrades()
	if !ok {
		b.restorePending = true
		b.logger.Warn("restore deferred",
			zap.Int("backup", b.ledger.Count()), zap.Error(ErrModuleMissing))
		b.metrics.skip(skipModule)
		return stopped
	}

	// Added rather than set: pickups since the last tick are still in the module.
	returned := b.ledger.Count()
	mod.AddUnclaimed(returned)
	b.ledger.Clear()
	b.restorePending = false
	b.metrics.setBackup(NoBackup)
	b.metrics.restored()
	b.logger.Info("restored unclaimed upgrades",
		zap.Int("returned", returned), zap.Int("unclaimed", mod.UnclaimedUpgrades()))

	b.state = StateNormal
	return stopped
}

func (b *Booster) OnLoadGlobal(g *settings.Global) {
	if g == nil {
		b.settings.SetGlobal(settings.DefaultGlobal())
		return
	}
	b.settings.SetGlobal(*g)
}

func (b *Booster) OnSaveGlobal() settings.Global {
	return b.settings.Global()
}

func (b *Booster) OnLoadLocal(l *settings.Local) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if l == nil {
		b.local = settings.DefaultLocal()
	} else {
		b.local = *l
	}
	b.lastSaved = nil
}

func (b *Booster) OnSaveLocal() settings.Local {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.local
}

// Package host is an in-memory game host: player data, the upgrade module,
// the scene manager and the hook bus the booster subscribes to. The CLI
// drives it interactively and the tests drive it directly.
package host

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

const (
	DefaultDamagePerUpgrade = 4
	MenuScene               = "Menu_Title"
	QuitScene               = "Quit_To_Menu"
)

type Host struct {
	mu     sync.Mutex
	logger *zap.Logger

	player     *PlayerData
	loaded     bool
	module     *UpgradeModule
	registered bool
	scene      string
	mods       map[string]bool
	session    string

	handlers   map[int]nail.Handlers
	nextID     int
	broadcasts map[string]int
	gained     int
	saves      int
	slots      map[int]SaveSlot
}

// SaveSlot is what a save file keeps: the nail as saved and the mod's local
// settings, nil when no subscriber supplied any.
type SaveSlot struct {
	Stats nail.Stats
	Local *settings.Local
}

func New(logger *zap.Logger) *Host {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{
		logger:     logger.Named("host"),
		player:     NewPlayerData(),
		module:     NewUpgradeModule(DefaultDamagePerUpgrade, 0),
		scene:      MenuScene,
		mods:       make(map[string]bool),
		handlers:   make(map[int]nail.Handlers),
		broadcasts: make(map[string]int),
		slots:      make(map[int]SaveSlot),
	}
}

func (h *Host) Subscribe(hs nail.Handlers) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = hs
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.handlers, id)
		h.mu.Unlock()
	}
}

func (h *Host) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}

// snapshotHandlers copies the subscriber list in subscription order so hooks
// run without h.mu held; they call back into the host.
func (h *Host) snapshotHandlers() []nail.Handlers {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.handlers))
	for id := range h.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]nail.Handlers, 0, len(ids))
	for _, id := range ids {
		out = append(out, h.handlers[id])
	}
	return out
}

func (h *Host) PlayerData() (nail.PlayerData, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.loaded {
		return nil, false
	}
	return h.player, true
}

func (h *Host) NailUpgrades() (nail.UpgradeModule, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.registered {
		return nil, false
	}
	return h.module, true
}

func (h *Host) BroadcastEvent(name string) {
	h.mu.Lock()
	h.broadcasts[name]++
	h.mu.Unlock()
	h.logger.Debug("broadcast", zap.String("event", name))
}

func (h *Host) Broadcasts(name string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.broadcasts[name]
}

func (h *Host) ActiveScene() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.scene
}

func (h *Host) HasMod(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mods[name]
}

func (h *Host) SetMods(names ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mods = make(map[string]bool, len(names))
	for _, n := range names {
		h.mods[n] = true
	}
}

func (h *Host) Player() *PlayerData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.player
}

func (h *Host) Module() *UpgradeModule {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.module
}

func (h *Host) SessionID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.session
}

// Stats reads the nail fields straight from player data.
func (h *Host) Stats() nail.Stats {
	return nail.ReadStats(h.Player())
}

// Gained is the number of upgrades picked up during the session.
func (h *Host) Gained() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.gained
}

func (h *Host) Saves() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.saves
}

// RegisterModule makes the upgrade module visible to the booster.
func (h *Host) RegisterModule(damagePerUpgrade, unclaimed int) {
	h.mu.Lock()
	h.module = NewUpgradeModule(damagePerUpgrade, unclaimed)
	h.registered = true
	h.mu.Unlock()
}

// UnregisterModule hides the module while keeping its count.
func (h *Host) UnregisterModule() {
	h.mu.Lock()
	h.registered = false
	h.mu.Unlock()
}

// Pickup adds n upgrades to the module, the way finding a pale ore check
// would.
func (h *Host) Pickup(n int) {
	if n <= 0 {
		return
	}
	h.Module().AddUnclaimed(n)
	h.mu.Lock()
	h.gained += n
	h.mu.Unlock()
	h.logger.Debug("picked up nail upgrades", zap.Int("count", n))
}

// NewGame starts a fresh file: local settings reset, new-game hook, player
// data reset to stats, enter-game hook, then the opening scene load.
func (h *Host) NewGame(stats nail.Stats, scene string) {
	h.loadLocal(nil)
	for _, hs := range h.snapshotHandlers() {
		if hs.BeforeStartNewGame != nil {
			hs.BeforeStartNewGame()
		}
	}
	h.enter(stats, scene)
}

// LoadGame continues an existing file whose local settings are local; nil
// loads the defaults, as for a file saved before the mod was installed.
func (h *Host) LoadGame(stats nail.Stats, scene string, local *settings.Local) {
	h.loadLocal(local)
	h.enter(stats, scene)
}

// Slot returns what the last save to slot stored.
func (h *Host) Slot(slot int) (SaveSlot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.slots[slot]
	return s, ok
}

func (h *Host) loadLocal(local *settings.Local) {
	for _, hs := range h.snapshotHandlers() {
		if hs.LoadLocal == nil {
			continue
		}
		if local == nil {
			hs.LoadLocal(nil)
			continue
		}
		l := *local
		hs.LoadLocal(&l)
	}
}

func (h *Host) enter(stats nail.Stats, scene string) {
	h.mu.Lock()
	h.player = NewPlayerData()
	h.player.SetInt(nail.FieldNailLevel, stats.Level)
	h.player.SetInt(nail.FieldNailDamage, stats.Damage)
	h.player.SetBool(nail.FieldHonedNail, stats.Honed)
	h.loaded = true
	h.session = uuid.NewString()
	h.mu.Unlock()
	h.logger.Info("entered game", zap.String("session", h.SessionID()))

	for _, hs := range h.snapshotHandlers() {
		if hs.EnterGame != nil {
			hs.EnterGame()
		}
	}
	h.LoadScene(scene)
}

// Transition runs every transition hook to completion before swapping the
// active scene and firing the scene-loaded hooks.
func (h *Host) Transition(destination string) {
	for _, hs := range h.snapshotHandlers() {
		if hs.TransitionBegin != nil {
			hs.TransitionBegin(destination)
		}
	}
	h.LoadScene(destination)
}

// LoadScene activates scene without a transition, like a boss reload.
func (h *Host) LoadScene(scene string) {
	h.mu.Lock()
	h.scene = scene
	h.mu.Unlock()
	h.logger.Debug("scene loaded", zap.String("scene", scene))

	for _, hs := range h.snapshotHandlers() {
		if hs.SceneLoaded != nil {
			hs.SceneLoaded(scene)
		}
	}
}

// Save fires the save hooks, then stores the nail and the local settings in
// slot. Nothing is stored while no game is loaded.
func (h *Host) Save(slot int) {
	h.mu.Lock()
	h.saves++
	h.mu.Unlock()
	handlers := h.snapshotHandlers()
	for _, hs := range handlers {
		if hs.Save != nil {
			hs.Save(slot)
		}
	}

	if _, ok := h.PlayerData(); !ok {
		return
	}
	saved := SaveSlot{Stats: h.Stats()}
	for _, hs := range handlers {
		if hs.SaveLocal != nil {
			l := hs.SaveLocal()
			saved.Local = &l
			break
		}
	}
	h.mu.Lock()
	h.slots[slot] = saved
	h.mu.Unlock()
}

// QuitToMenu leaves the game; player data is unloaded afterwards.
func (h *Host) QuitToMenu() {
	h.Transition(QuitScene)
	h.LoadScene(MenuScene)
	h.mu.Lock()
	h.loaded = false
	h.mu.Unlock()
}

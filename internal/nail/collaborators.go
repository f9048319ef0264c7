package nail

import "github.com/appengine-ltd/smartnail/internal/settings"

// Field names used by the game's player data store.
const (
	FieldNailLevel  = "nailSmithUpgrades"
	FieldNailDamage = "nailDamage"
	FieldHonedNail  = "honedNail"
)

// EventUpdateNailDamage is broadcast after every write to the nail fields so
// HUD and attack FSMs pick up the new damage.
const EventUpdateNailDamage = "UPDATE NAIL DAMAGE"

type PlayerData interface {
	GetInt(name string) int
	SetInt(name string, value int)
	GetBool(name string) bool
	SetBool(name string, value bool)
}

// PlayerSource yields the live player data, or false before a save is loaded.
type PlayerSource interface {
	PlayerData() (PlayerData, bool)
}

// UpgradeModule is the randomizer module that holds nail upgrades the
// player has found but not yet redeemed at the nailsmith. Pickups change the
// count from outside the booster, so TakeUnclaimed and AddUnclaimed must be
// atomic with respect to them.
type UpgradeModule interface {
	UnclaimedUpgrades() int
	// TakeUnclaimed zeroes the count and returns what it held.
	TakeUnclaimed() int
	AddUnclaimed(n int)
	DamagePerUpgrade() int
}

// ModuleSource yields the upgrade module, or false while it is not registered.
type ModuleSource interface {
	NailUpgrades() (UpgradeModule, bool)
}

type Broadcaster interface {
	BroadcastEvent(name string)
}

type SceneSource interface {
	ActiveScene() string
}

// ModRegistry answers whether another mod is loaded.
type ModRegistry interface {
	HasMod(name string) bool
}

// Handlers are the hooks the booster installs on the host. TransitionBegin
// runs before the host swaps scenes; the host must not proceed until it
// returns. LoadLocal runs before EnterGame with the save file's local
// settings, nil for a new game or a file without them. SaveLocal supplies
// the local settings written into the save after Save.
type Handlers struct {
	LoadLocal          func(l *settings.Local)
	SaveLocal          func() settings.Local
	BeforeStartNewGame func()
	EnterGame          func()
	Save               func(slot int)
	TransitionBegin    func(destination string)
	SceneLoaded        func(scene string)
}

// Events installs handlers and returns the matching removal func.
type Events interface {
	Subscribe(h Handlers) (unsubscribe func())
}

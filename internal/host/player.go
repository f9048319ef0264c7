package host

import "sync"

// PlayerData is a map-backed stand-in for the game's player save data.
type PlayerData struct {
	mu    sync.Mutex
	ints  map[string]int
	bools map[string]bool
}

func NewPlayerData() *PlayerData {
	return &PlayerData{
		ints:  make(map[string]int),
		bools: make(map[string]bool),
	}
}

func (p *PlayerData) GetInt(name string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ints[name]
}

func (p *PlayerData) SetInt(name string, value int) {
	p.mu.Lock()
	p.ints[name] = value
	p.mu.Unlock()
}

func (p *PlayerData) GetBool(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bools[name]
}

func (p *PlayerData) SetBool(name string, value bool) {
	p.mu.Lock()
	p.bools[name] = value
	p.mu.Unlock()
}

// UpgradeModule mirrors the randomizer's delayed nail upgrade module.
type UpgradeModule struct {
	mu        sync.Mutex
	unclaimed int
	damage    int
}

func NewUpgradeModule(damagePerUpgrade, unclaimed int) *UpgradeModule {
	return &UpgradeModule{unclaimed: unclaimed, damage: damagePerUpgrade}
}

func (m *UpgradeModule) UnclaimedUpgrades() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unclaimed
}

func (m *UpgradeModule) TakeUnclaimed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.unclaimed
	m.unclaimed = 0
	return n
}

func (m *UpgradeModule) AddUnclaimed(n int) {
	m.mu.Lock()
	m.unclaimed += n
	m.mu.Unlock()
}

func (m *UpgradeModule) DamagePerUpgrade() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.damage
}

// Package settings holds the boost toggles shared by every save file and the
// per-save baseline nail stats.
package settings

import (
	"sync"

	"github.com/appengine-ltd/smartnail/internal/scenes"
)

type Global struct {
	EnableGodhome     bool `json:"EnableGodhome" yaml:"enable_godhome"`
	EnableDreamBosses bool `json:"EnableDreamBosses" yaml:"enable_dream_bosses"`
}

func DefaultGlobal() Global {
	return Global{EnableGodhome: true, EnableDreamBosses: true}
}

func (g Global) GroupEnabled(group scenes.Group) bool {
	switch group {
	case scenes.GroupGodhome:
		return g.EnableGodhome
	case scenes.GroupDreamBoss:
		return g.EnableDreamBosses
	default:
		return false
	}
}

// Local is persisted with a single save file. A level of -1 means no
// baseline has been captured yet.
type Local struct {
	StoredNailLevel  int  `json:"StoredNailLevel"`
	StoredNailDamage int  `json:"StoredNailDamage"`
	StoredHonedNail  bool `json:"StoredHonedNail"`
}

func DefaultLocal() Local {
	return Local{StoredNailLevel: -1, StoredNailDamage: -1}
}

func (l Local) Captured() bool {
	return l.StoredNailLevel >= 0 && l.StoredNailDamage >= 0
}

// Store guards the global toggles; the settings watcher writes them while the
// booster reads them.
type Store struct {
	mu     sync.RWMutex
	global Global
}

func NewStore(g Global) *Store {
	return &Store{global: g}
}

func (s *Store) Global() Global {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

func (s *Store) SetGlobal(g Global) {
	s.mu.Lock()
	s.global = g
	s.mu.Unlock()
}

func (s *Store) Update(fn func(*Global)) Global {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.global)
	return s.global
}

func (s *Store) GroupEnabled(group scenes.Group) bool {
	return s.Global().GroupEnabled(group)
}

package replay

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/appengine-ltd/smartnail/internal/host"
	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

var defaultMods = []string{"ItemChangerMod", "RandoPlus"}

// idleClock never fires; ticks happen only on explicit tick steps.
type idleClock struct{}

func (idleClock) After(time.Duration) <-chan time.Time { return nil }

type Result struct {
	Name      string
	Steps     int
	Final     nail.Stats
	Backup    int
	Unclaimed int
	Gained    int
}

// Run plays s from a fresh host and returns the state after the last step.
// The first failed expectation stops the run.
func Run(s Script, logger *zap.Logger) (Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := host.New(logger)
	mods := s.Mods
	if len(mods) == 0 {
		mods = defaultMods
	}
	h.SetMods(mods...)
	damage := s.DamagePerUpgrade
	if damage == 0 {
		damage = host.DefaultDamagePerUpgrade
	}
	h.RegisterModule(damage, s.Unclaimed)

	store := settings.NewStore(settings.DefaultGlobal())
	if s.Settings != nil {
		store.SetGlobal(*s.Settings)
	}
	b := nail.NewBooster(nail.Config{
		Player:    h,
		Modules:   h,
		Broadcast: h,
		Scenes:    h,
		Settings:  store,
		Logger:    logger,
		Clock:     idleClock{},
	})
	if err := b.Initialize(h, h); err != nil {
		return Result{Name: s.Name}, err
	}
	defer b.Detach()

	res := Result{Name: s.Name}
	for i, step := range s.Steps {
		if err := apply(h, b, step); err != nil {
			return res, fmt.Errorf("%s step %d: %w", s.Name, i+1, err)
		}
		res.Steps = i + 1
	}
	res.Final = h.Stats()
	res.Backup = b.Backup()
	res.Unclaimed = h.Module().UnclaimedUpgrades()
	res.Gained = h.Gained()
	return res, nil
}

func apply(h *host.Host, b *nail.Booster, step Step) error {
	switch {
	case step.NewGame != nil:
		h.NewGame(step.NewGame.stats(), step.NewGame.scene())
	case step.LoadGame != nil:
		return loadGame(h, *step.LoadGame)
	case step.Transition != "":
		h.Transition(step.Transition)
	case step.Load != "":
		h.LoadScene(step.Load)
	case step.Pickup > 0:
		h.Pickup(step.Pickup)
	case step.Tick > 0:
		for range step.Tick {
			b.Poll()
		}
	case step.Save != nil:
		h.Save(*step.Save)
	case step.RegisterModule != nil:
		damage := step.RegisterModule.DamagePerUpgrade
		if damage == 0 {
			damage = host.DefaultDamagePerUpgrade
		}
		h.RegisterModule(damage, step.RegisterModule.Unclaimed)
	case step.UnregisterModule:
		h.UnregisterModule()
	case step.Toggle != nil:
		return b.Settings().SetEntry(step.Toggle.Entry, step.Toggle.Value)
	case step.Quit:
		h.QuitToMenu()
	case step.Expect != nil:
		return check(h, b, *step.Expect)
	}
	return nil
}

func loadGame(h *host.Host, g GameStart) error {
	if g.Slot == nil {
		h.LoadGame(g.stats(), g.scene(), nil)
		return nil
	}
	saved, ok := h.Slot(*g.Slot)
	if !ok {
		return fmt.Errorf("%w: no save in slot %d", ErrInvalidStep, *g.Slot)
	}
	h.LoadGame(saved.Stats, g.scene(), saved.Local)
	return nil
}

func (g GameStart) stats() nail.Stats {
	return nail.Stats{Level: g.Level, Damage: g.Damage, Honed: g.Honed}
}

func (g GameStart) scene() string {
	if g.Scene == "" {
		return "Town"
	}
	return g.Scene
}

func check(h *host.Host, b *nail.Booster, e Expect) error {
	var failures []string
	got := h.Stats()
	if e.Level != nil && got.Level != *e.Level {
		failures = append(failures, fmt.Sprintf("level=%d want %d", got.Level, *e.Level))
	}
	if e.Damage != nil && got.Damage != *e.Damage {
		failures = append(failures, fmt.Sprintf("damage=%d want %d", got.Damage, *e.Damage))
	}
	if e.Honed != nil && got.Honed != *e.Honed {
		failures = append(failures, fmt.Sprintf("honed=%t want %t", got.Honed, *e.Honed))
	}
	if e.Backup != nil && b.Backup() != *e.Backup {
		failures = append(failures, fmt.Sprintf("backup=%d want %d", b.Backup(), *e.Backup))
	}
	if e.Unclaimed != nil {
		if n := h.Module().UnclaimedUpgrades(); n != *e.Unclaimed {
			failures = append(failures, fmt.Sprintf("unclaimed=%d want %d", n, *e.Unclaimed))
		}
	}
	if e.State != "" && !strings.EqualFold(b.State().String(), e.State) {
		failures = append(failures, fmt.Sprintf("state=%s want %s", b.State(), e.State))
	}
	if e.Scene != "" && h.ActiveScene() != e.Scene {
		failures = append(failures, fmt.Sprintf("scene=%s want %s", h.ActiveScene(), e.Scene))
	}
	if e.Baseline != nil {
		want := nail.Stats{Level: e.Baseline.Level, Damage: e.Baseline.Damage, Honed: e.Baseline.Honed}
		if base := b.Baseline(); base != want {
			failures = append(failures, fmt.Sprintf("baseline=%v want %v", base, want))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("%w: %s", ErrExpectation, strings.Join(failures, ", "))
	}
	return nil
}

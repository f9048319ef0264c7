package nail

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

var (
	ErrMissingDependency = errors.New("required mod missing")
	ErrConflictingMod    = errors.New("conflicting mod detected")
)

var (
	requiredMods    = []string{"ItemChangerMod", "RandoPlus"}
	conflictingMods = []string{"CombatRandomizer", "CurseRandomizer"}
)

// CheckMods reports why the booster must stay disabled alongside the loaded
// mods, or nil when it can run.
func CheckMods(mods ModRegistry) error {
	for _, name := range requiredMods {
		if !mods.HasMod(name) {
			return fmt.Errorf("%w: %s", ErrMissingDependency, name)
		}
	}
	var found []string
	for _, name := range conflictingMods {
		if mods.HasMod(name) {
			found = append(found, name)
		}
	}
	if len(found) > 0 {
		return fmt.Errorf("%w: %s", ErrConflictingMod, strings.Join(found, " + "))
	}
	return nil
}

// Initialize attaches to events when mods allows it. On refusal nothing is
// subscribed and the reason is returned.
func (b *Booster) Initialize(mods ModRegistry, events Events) error {
	if err := CheckMods(mods); err != nil {
		b.logger.Warn("disabled", zap.Error(err))
		return err
	}
	b.Attach(events)
	b.logger.Info("initialized")
	return nil
}

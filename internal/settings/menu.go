package settings

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownEntry = errors.New("unknown menu entry")

var toggleValues = []string{"Off", "On"}

// MenuEntry is one row rendered by the host's mod menu.
type MenuEntry struct {
	Name        string
	Description string
	Values      []string
	Saver       func(int)
	Loader      func() int
}

func (s *Store) MenuEntries() []MenuEntry {
	return []MenuEntry{
		{
			Name:        "Godhome Scenes",
			Description: "Toggle auto-boost for Godhome bosses",
			Values:      toggleValues,
			Saver:       func(idx int) { s.Update(func(g *Global) { g.EnableGodhome = idx == 1 }) },
			Loader:      func() int { return boolIndex(s.Global().EnableGodhome) },
		},
		{
			Name:        "Dream Bosses",
			Description: "Toggle auto-boost for dream bosses (GPZ, NKG, WD, LK, FC, ST)",
			Values:      toggleValues,
			Saver:       func(idx int) { s.Update(func(g *Global) { g.EnableDreamBosses = idx == 1 }) },
			Loader:      func() int { return boolIndex(s.Global().EnableDreamBosses) },
		},
	}
}

// SetEntry applies value to the entry called name. Both are matched without
// regard to case.
func (s *Store) SetEntry(name, value string) error {
	for _, entry := range s.MenuEntries() {
		if !strings.EqualFold(entry.Name, strings.TrimSpace(name)) {
			continue
		}
		for idx, v := range entry.Values {
			if strings.EqualFold(v, strings.TrimSpace(value)) {
				entry.Saver(idx)
				return nil
			}
		}
		return fmt.Errorf("%s: value %q not one of %s", entry.Name, value, strings.Join(entry.Values, "/"))
	}
	return fmt.Errorf("%w: %s", ErrUnknownEntry, name)
}

func boolIndex(b bool) int {
	if b {
		return 1
	}
	return 0
}

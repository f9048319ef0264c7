package replay

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestTestdataScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no scripts found")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			res, err := Run(s, nil)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if res.Steps != len(s.Steps) {
				t.Fatalf("ran %d of %d steps", res.Steps, len(s.Steps))
			}
		})
	}
}

func TestRunReportsFailedExpectation(t *testing.T) {
	s, err := Parse([]byte(`
name: wrong
unclaimed: 2
steps:
  - new_game: {level: 4, damage: 9}
  - transition: GG_Hornet_1
  - expect: {level: 99, backup: 2}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	res, err := Run(s, nil)
	if !errors.Is(err, ErrExpectation) {
		t.Fatalf("expected ErrExpectation, got %v", err)
	}
	if !strings.Contains(err.Error(), "level=6 want 99") || strings.Contains(err.Error(), "backup=") {
		t.Fatalf("unexpected failure detail: %v", err)
	}
	if !strings.Contains(err.Error(), "step 3") {
		t.Fatalf("expected step number in %v", err)
	}
	if res.Steps != 2 {
		t.Fatalf("expected 2 completed steps, got %d", res.Steps)
	}
}

func TestParseRejectsAmbiguousSteps(t *testing.T) {
	_, err := Parse([]byte(`
steps:
  - transition: GG_Sly
    pickup: 1
`))
	if !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}

	_, err = Parse([]byte(`
steps:
  - teleport: GG_Sly
`))
	if err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestRunRefusesConflictingMods(t *testing.T) {
	s := Script{Name: "conflict", Mods: []string{"ItemChangerMod", "RandoPlus", "CombatRandomizer"}}
	if _, err := Run(s, nil); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestRunResultSummarisesFinalState(t *testing.T) {
	s := Script{
		Unclaimed: 1,
		Steps: []Step{
			{NewGame: &GameStart{Level: 1, Damage: 5}},
			{Transition: "GG_Sly"},
			{Pickup: 2},
		},
	}
	res, err := Run(s, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Backup != 1 || res.Unclaimed != 2 || res.Gained != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Final.Level != 2 || !res.Final.Honed {
		t.Fatalf("unexpected final stats %+v", res.Final)
	}
}

func TestLoadGameFromUnknownSlot(t *testing.T) {
	s, err := Parse([]byte(`
name: missing slot
steps:
  - new_game: {level: 1, damage: 5}
  - quit: true
  - load_game: {slot: 3}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, err = Run(s, nil)
	if !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("expected ErrInvalidStep, got %v", err)
	}
	if !strings.Contains(err.Error(), "step 3") {
		t.Fatalf("error should name the step: %v", err)
	}
}

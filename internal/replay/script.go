// Package replay runs YAML scripts of game events through a host with the
// booster attached and checks the nail after each step.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/smartnail/internal/settings"
)

var (
	ErrExpectation = errors.New("expectation failed")
	ErrInvalidStep = errors.New("invalid step")
)

type Script struct {
	Name             string           `yaml:"name"`
	DamagePerUpgrade int              `yaml:"damage_per_upgrade"`
	Unclaimed        int              `yaml:"unclaimed"`
	Mods             []string         `yaml:"mods"`
	Settings         *settings.Global `yaml:"settings"`
	Steps            []Step           `yaml:"steps"`
}

// GameStart gives the nail explicitly, or for load_game names a slot saved
// earlier in the script; a slot brings back its nail and local settings.
type GameStart struct {
	Level  int    `yaml:"level"`
	Damage int    `yaml:"damage"`
	Honed  bool   `yaml:"honed"`
	Scene  string `yaml:"scene"`
	Slot   *int   `yaml:"slot"`
}

type ModuleSpec struct {
	DamagePerUpgrade int `yaml:"damage_per_upgrade"`
	Unclaimed        int `yaml:"unclaimed"`
}

type Toggle struct {
	Entry string `yaml:"entry"`
	Value string `yaml:"value"`
}

// Expect fields left empty are not checked.
type Expect struct {
	Level     *int   `yaml:"level"`
	Damage    *int   `yaml:"damage"`
	Honed     *bool  `yaml:"honed"`
	Backup    *int   `yaml:"backup"`
	Unclaimed *int   `yaml:"unclaimed"`
	State     string `yaml:"state"`
	Scene     string `yaml:"scene"`
	Baseline  *Stats `yaml:"baseline"`
}

type Stats struct {
	Level  int  `yaml:"level"`
	Damage int  `yaml:"damage"`
	Honed  bool `yaml:"honed"`
}

// Step holds exactly one action.
type Step struct {
	NewGame          *GameStart  `yaml:"new_game"`
	LoadGame         *GameStart  `yaml:"load_game"`
	Transition       string      `yaml:"transition"`
	Load             string      `yaml:"load"`
	Pickup           int         `yaml:"pickup"`
	Tick             int         `yaml:"tick"`
	Save             *int        `yaml:"save"`
	RegisterModule   *ModuleSpec `yaml:"register_module"`
	UnregisterModule bool        `yaml:"unregister_module"`
	Toggle           *Toggle     `yaml:"toggle"`
	Quit             bool        `yaml:"quit"`
	Expect           *Expect     `yaml:"expect"`
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{
		s.NewGame != nil, s.LoadGame != nil, s.Transition != "", s.Load != "",
		s.Pickup > 0, s.Tick > 0, s.Save != nil, s.RegisterModule != nil,
		s.UnregisterModule, s.Toggle != nil, s.Quit, s.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, err
	}
	s, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

func Parse(data []byte) (Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Script{}, err
	}
	return s, nil
}

func (s Script) Validate() error {
	if s.DamagePerUpgrade < 0 || s.Unclaimed < 0 {
		return fmt.Errorf("%w: negative module values", ErrInvalidStep)
	}
	for i, step := range s.Steps {
		if n := step.actions(); n != 1 {
			return fmt.Errorf("%w: step %d has %d actions, want 1", ErrInvalidStep, i+1, n)
		}
	}
	return nil
}

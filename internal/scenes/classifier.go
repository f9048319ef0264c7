// Package scenes classifies game scenes into the boss groups that receive a
// nail boost.
package scenes

import "sort"

// Toggles reports which scene groups are switched on.
type Toggles interface {
	GroupEnabled(Group) bool
}

// ToggleFunc adapts a plain function to Toggles.
type ToggleFunc func(Group) bool

func (f ToggleFunc) GroupEnabled(g Group) bool {
	if f == nil {
		return false
	}
	return f(g)
}

// AllEnabled turns every group on.
var AllEnabled = ToggleFunc(func(Group) bool { return true })

type Classifier struct {
	groups   map[Group]map[string]struct{}
	order    []Group
	excluded map[string]struct{}
}

func NewClassifier() *Classifier {
	c := &Classifier{
		groups:   make(map[Group]map[string]struct{}),
		excluded: toSet(excludedScenes),
	}
	c.addGroup(GroupGodhome, godhomeScenes)
	c.addGroup(GroupDreamBoss, dreamBossScenes)
	return c
}

func (c *Classifier) addGroup(g Group, names []string) {
	c.groups[g] = toSet(names)
	c.order = append(c.order, g)
}

// Excluded reports whether scene is a menu scene that must never be boosted or
// snapshotted.
func (c *Classifier) Excluded(scene string) bool {
	_, ok := c.excluded[scene]
	return ok
}

// GroupOf returns the group scene belongs to regardless of toggles.
func (c *Classifier) GroupOf(scene string) (Group, bool) {
	if c.Excluded(scene) {
		return "", false
	}
	for _, g := range c.order {
		if _, ok := c.groups[g][scene]; ok {
			return g, true
		}
	}
	return "", false
}

// IsBoostScene is true when scene belongs to a group that toggles has enabled.
func (c *Classifier) IsBoostScene(scene string, toggles Toggles) bool {
	if toggles == nil {
		return false
	}
	g, ok := c.GroupOf(scene)
	return ok && toggles.GroupEnabled(g)
}

func (c *Classifier) Groups() []Group {
	out := make([]Group, len(c.order))
	copy(out, c.order)
	return out
}

// Scenes lists a group's members in sorted order.
func (c *Classifier) Scenes(g Group) []string {
	set := c.groups[g]
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

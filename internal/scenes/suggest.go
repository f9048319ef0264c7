package scenes

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

type Suggestion struct {
	Scene    string
	Group    Group
	Distance int
}

// Suggest returns known scenes within edit distance of name, closest first.
// An exact member yields a single zero-distance suggestion.
func (c *Classifier) Suggest(name string) []Suggestion {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if g, ok := c.GroupOf(name); ok {
		return []Suggestion{{Scene: name, Group: g}}
	}

	lower := strings.ToLower(name)
	var out []Suggestion
	for _, g := range c.order {
		for scene := range c.groups[g] {
			dist := levenshtein.ComputeDistance(lower, strings.ToLower(scene))
			if dist > distanceLimit(len(scene)) {
				continue
			}
			out = append(out, Suggestion{Scene: scene, Group: g, Distance: dist})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Distance == out[j].Distance {
			return out[i].Scene < out[j].Scene
		}
		return out[i].Distance < out[j].Distance
	})
	return out
}

func distanceLimit(length int) int {
	switch {
	case length <= 8:
		return 1
	case length <= 16:
		return 2
	default:
		return 3
	}
}

package nail

import "testing"

type recordingPlayer struct {
	ints   map[string]int
	bools  map[string]bool
	writes int
}

func newRecordingPlayer() *recordingPlayer {
	return &recordingPlayer{ints: map[string]int{}, bools: map[string]bool{}}
}

func (p *recordingPlayer) GetInt(name string) int   { return p.ints[name] }
func (p *recordingPlayer) GetBool(name string) bool { return p.bools[name] }

func (p *recordingPlayer) SetInt(name string, v int) {
	p.ints[name] = v
	p.writes++
}

func (p *recordingPlayer) SetBool(name string, v bool) {
	p.bools[name] = v
	p.writes++
}

type countingBroadcaster map[string]int

func (c countingBroadcaster) BroadcastEvent(name string) { c[name]++ }

func TestBoostedFormula(t *testing.T) {
	tests := []struct {
		name   string
		base   Stats
		backup int
		want   Stats
	}{
		{name: "scenario a", base: Stats{Level: 4, Damage: 9}, backup: 2, want: Stats{Level: 6, Damage: 17, Honed: true}},
		{name: "scenario b", base: Stats{Level: 4, Damage: 9}, backup: 3, want: Stats{Level: 7, Damage: 21, Honed: true}},
		{name: "no upgrades still honed", base: Stats{Level: 1, Damage: 5}, backup: 0, want: Stats{Level: 1, Damage: 5, Honed: true}},
		{name: "sentinel treated as zero", base: Stats{Level: 1, Damage: 5}, backup: NoBackup, want: Stats{Level: 1, Damage: 5, Honed: true}},
	}
	for _, tc := range tests {
		if got := Boosted(tc.base, tc.backup, 4); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	p := newRecordingPlayer()
	bc := countingBroadcaster{}
	r := Reconciler{Broadcast: bc}
	base := Stats{Level: 4, Damage: 9}

	first := r.Apply(p, base, 2, 4)
	afterFirst := ReadStats(p)
	second := r.Apply(p, base, 2, 4)
	afterSecond := ReadStats(p)

	if first != second || afterFirst != afterSecond {
		t.Fatalf("repeated apply drifted: %v -> %v", afterFirst, afterSecond)
	}
	if afterSecond != (Stats{Level: 6, Damage: 17, Honed: true}) {
		t.Fatalf("unexpected applied stats %v", afterSecond)
	}
	if bc[EventUpdateNailDamage] != 2 {
		t.Fatalf("expected a broadcast per write, got %d", bc[EventUpdateNailDamage])
	}
	if p.writes != 6 {
		t.Fatalf("expected 3 field writes per apply, got %d", p.writes)
	}
}

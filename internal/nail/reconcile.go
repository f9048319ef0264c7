package nail

// Boosted derives the boosted stats from the baseline. backup is an absolute
// count, so calling it again with the same inputs yields the same result.
func Boosted(base Stats, backup, damagePerUpgrade int) Stats {
	backup = max(0, backup)
	return Stats{
		Level:  base.Level + backup,
		Damage: base.Damage + backup*damagePerUpgrade,
		Honed:  true,
	}
}

// Reconciler pushes stats into the player store and announces the change.
type Reconciler struct {
	Broadcast Broadcaster
	Metrics   *Metrics
}

func (r Reconciler) Write(p PlayerData, s Stats) {
	writeStats(p, s)
	if r.Broadcast != nil {
		r.Broadcast.BroadcastEvent(EventUpdateNailDamage)
	}
	r.Metrics.reconciled()
}

// Apply writes the boosted stats for base and backup and returns them.
func (r Reconciler) Apply(p PlayerData, base Stats, backup, damagePerUpgrade int) Stats {
	s := Boosted(base, backup, damagePerUpgrade)
	r.Write(p, s)
	return s
}

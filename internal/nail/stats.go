package nail

import "fmt"

type Stats struct {
	Level  int
	Damage int
	Honed  bool
}

func (s Stats) String() string {
	return fmt.Sprintf("L=%d D=%d H=%t", s.Level, s.Damage, s.Honed)
}

func ReadStats(p PlayerData) Stats {
	return Stats{
		Level:  p.GetInt(FieldNailLevel),
		Damage: p.GetInt(FieldNailDamage),
		Honed:  p.GetBool(FieldHonedNail),
	}
}

func writeStats(p PlayerData, s Stats) {
	p.SetInt(FieldNailLevel, s.Level)
	p.SetInt(FieldNailDamage, s.Damage)
	p.SetBool(FieldHonedNail, s.Honed)
}

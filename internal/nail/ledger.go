package nail

// NoBackup marks a ledger that holds no withheld upgrades.
const NoBackup = -1

// Ledger counts upgrades withheld from the upgrade module while a boost is
// active. While it is active the booster owns the module's counter.
type Ledger struct {
	count int
}

func NewLedger() Ledger {
	return Ledger{count: NoBackup}
}

func (l Ledger) Active() bool {
	return l.count >= 0
}

// Count is NoBackup when inactive.
func (l Ledger) Count() int {
	return l.count
}

func (l *Ledger) Begin(n int) {
	l.count = max(0, n)
}

// Add folds n more upgrades into an active ledger.
func (l *Ledger) Add(n int) {
	if !l.Active() || n <= 0 {
		return
	}
	l.count += n
}

func (l *Ledger) Clear() {
	l.count = NoBackup
}

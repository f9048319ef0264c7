package console

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/appengine-ltd/smartnail/internal/host"
	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

type stillClock struct{}

func (stillClock) After(time.Duration) <-chan time.Time { return nil }

func newTestSession(t *testing.T, opts ...Option) (*Session, *host.Host, *nail.Booster, *bytes.Buffer) {
	t.Helper()
	t.Cleanup(func() { goleak.VerifyNone(t) })
	h := host.New(nil)
	b := nail.NewBooster(nail.Config{
		Player:    h,
		Modules:   h,
		Broadcast: h,
		Scenes:    h,
		Clock:     stillClock{},
	})
	b.Attach(h)
	t.Cleanup(b.Detach)
	h.RegisterModule(host.DefaultDamagePerUpgrade, 0)

	var out bytes.Buffer
	return NewSession(h, b, &out, opts...), h, b, &out
}

func run(t *testing.T, s *Session, lines ...string) {
	t.Helper()
	for _, line := range lines {
		require.NoError(t, s.Execute(line), line)
	}
}

func TestSessionBoostAndRestore(t *testing.T) {
	s, h, b, out := newTestSession(t)

	run(t, s, "new 2 13", "pickup 3", "go GG_Hornet_2")
	assert.Equal(t, nail.StateBoosted, b.State())
	assert.Equal(t, nail.Stats{Level: 5, Damage: 25, Honed: true}, h.Stats())
	assert.Contains(t, out.String(), "(boost) state=boosted")

	run(t, s, "pickup", "tick")
	assert.Equal(t, nail.Stats{Level: 6, Damage: 29, Honed: true}, h.Stats())

	run(t, s, "go GG_Atrium")
	assert.Equal(t, nail.StateNormal, b.State())
	assert.Equal(t, nail.Stats{Level: 2, Damage: 13}, h.Stats())
	assert.Equal(t, 4, h.Module().UnclaimedUpgrades())
	assert.Equal(t, nail.NoBackup, b.Backup())
}

func TestSessionResolvesMisspelledScene(t *testing.T) {
	s, h, b, out := newTestSession(t)

	run(t, s, "new", "pickup 2", "go GG_Radiance")
	assert.Equal(t, "GG_Radiacne", h.ActiveScene())
	assert.Equal(t, nail.StateBoosted, b.State())
	assert.Contains(t, out.String(), "using GG_Radiacne for GG_Radiance")
}

func TestSessionToggleDisablesGroup(t *testing.T) {
	s, h, b, out := newTestSession(t)

	run(t, s, "toggle godhome off", "new 1 9", "pickup 2", "go GG_Hornet_2")
	assert.Contains(t, out.String(), "Godhome Scenes: Off")
	assert.Equal(t, nail.StateNormal, b.State())
	assert.Equal(t, nail.Stats{Level: 1, Damage: 9}, h.Stats())

	out.Reset()
	run(t, s, "toggle dream sideways")
	assert.Contains(t, out.String(), `value "sideways" not one of Off/On`)
}

func TestSessionSavesBaselinePerSlot(t *testing.T) {
	dir := t.TempDir()
	s, _, _, out := newTestSession(t, WithSaveDir(dir))

	run(t, s, "new 3 17 true", "save 2")
	path := filepath.Join(dir, "user2.SmartNail.json")
	assert.Contains(t, out.String(), "saved slot 2 to "+path)

	local, err := settings.LoadLocal(path)
	require.NoError(t, err)
	assert.Equal(t, settings.Local{StoredNailLevel: 3, StoredNailDamage: 17, StoredHonedNail: true}, local)
}

func TestSessionModuleOffSkipsBoost(t *testing.T) {
	s, h, b, out := newTestSession(t)

	run(t, s, "new", "pickup 2", "module off", "go GG_Hornet_2")
	assert.Equal(t, nail.StateNormal, b.State())
	assert.Equal(t, nail.Stats{Level: 0, Damage: 5}, h.Stats())

	run(t, s, "module on", "reload")
	assert.Equal(t, nail.StateBoosted, b.State())
	assert.Equal(t, nail.Stats{Level: 2, Damage: 13, Honed: true}, h.Stats())
	assert.Contains(t, out.String(), "upgrade module registered")
}

func TestSessionReportsInputProblems(t *testing.T) {
	s, _, _, out := newTestSession(t)

	run(t, s, "status", "pickup lots", "new 3", "go")
	text := out.String()
	assert.Contains(t, text, "no game loaded")
	assert.Contains(t, text, `expected a non-negative number, got "lots"`)
	assert.Contains(t, text, "give both level and damage")
	assert.Contains(t, text, "Usage: go SCENE")
}

func TestSessionExit(t *testing.T) {
	s, _, _, _ := newTestSession(t)
	err := s.Execute("bye")
	assert.True(t, errors.Is(err, ErrExit))
}

func TestSessionContinueUsesEachFilesBaseline(t *testing.T) {
	s, h, b, _ := newTestSession(t)

	run(t, s, "new 4 9", "save 1", "menu", "continue 10 30")
	assert.Equal(t, nail.Stats{Level: 10, Damage: 30}, b.Baseline())

	run(t, s, "go GG_Hornet_1")
	assert.Equal(t, nail.Stats{Level: 10, Damage: 30, Honed: true}, h.Stats())
	run(t, s, "go Town")
	assert.Equal(t, nail.Stats{Level: 10, Damage: 30}, h.Stats())

	run(t, s, "menu", "continue 1")
	assert.Equal(t, nail.Stats{Level: 4, Damage: 9}, b.Baseline())
	assert.Equal(t, nail.Stats{Level: 4, Damage: 9}, h.Stats())
}

func TestSessionContinueReadsSaveDir(t *testing.T) {
	dir := t.TempDir()
	s, _, b, out := newTestSession(t, WithSaveDir(dir))

	run(t, s, "new 3 17 true", "save 2", "menu")
	edited := settings.Local{StoredNailLevel: 5, StoredNailDamage: 21}
	require.NoError(t, settings.SaveLocal(settings.LocalPath(dir, 2), edited))

	run(t, s, "continue 2")
	assert.Equal(t, nail.Stats{Level: 5, Damage: 21}, b.Baseline())

	run(t, s, "continue 7")
	assert.Contains(t, out.String(), "no save in slot 7")
}

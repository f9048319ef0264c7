package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SMARTNAIL_SETTINGS", filepath.Join(t.TempDir(), "env.json"))
	t.Setenv("SMARTNAIL_VERBOSE", "false")
	t.Setenv("SMARTNAIL_SETTLE_DELAY", "5ms")
	t.Setenv("SMARTNAIL_POLL_INTERVAL", "5ms")

	cmd := newRootCmd()
	var out, logs bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&logs)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "SmartNail dev (build none unknown) mod 1.0.0\n", out)
}

func TestScenesCheck(t *testing.T) {
	out, err := execute(t, "", "scenes", "check", "GG_Hornet_2")
	require.NoError(t, err)
	assert.Equal(t, "GG_Hornet_2: godhome boss scene\n", out)

	out, err = execute(t, "", "scenes", "check", "GG_Radiance")
	require.NoError(t, err)
	assert.Contains(t, out, "did you mean:")
	assert.Contains(t, out, "GG_Radiacne (godhome, distance 2)")

	out, err = execute(t, "", "scenes", "check", "Menu_Title")
	require.NoError(t, err)
	assert.Contains(t, out, "never boosted")
}

func TestScenesList(t *testing.T) {
	out, err := execute(t, "", "scenes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "godhome (57)")
	assert.Contains(t, out, "dream (6)")
	assert.Contains(t, out, "  GG_Radiacne\n")
}

func TestSettingsSetAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SmartNail.GlobalSettings.json")

	_, err := execute(t, "", "settings", "set", "dream bosses", "off", "--settings", path)
	require.NoError(t, err)

	g, err := settings.LoadGlobal(path)
	require.NoError(t, err)
	assert.Equal(t, settings.Global{EnableGodhome: true, EnableDreamBosses: false}, g)

	out, err := execute(t, "", "settings", "show", "--settings", path)
	require.NoError(t, err)
	assert.Contains(t, out, "# "+path)
	assert.Contains(t, out, "Dream Bosses    Off")
	assert.Contains(t, out, "Godhome Scenes  On")

	_, err = execute(t, "", "settings", "set", "Grimm Troupe", "On", "--settings", path)
	assert.ErrorIs(t, err, settings.ErrUnknownEntry)
}

func TestReplayScripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "internal", "replay", "testdata", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	out, err := execute(t, "", append([]string{"replay"}, paths...)...)
	require.NoError(t, err, out)
	assert.Equal(t, len(paths), strings.Count(out, "ok   "))
}

func TestReplayReportsMissingFile(t *testing.T) {
	out, err := execute(t, "", "replay", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, "1 of 1 scripts failed", err.Error())
	assert.Contains(t, out, "FAIL ")
}

func TestRunSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SmartNail.GlobalSettings.json")
	input := strings.Join([]string{
		"new 2 13",
		"pickup 3",
		"go GG_Hornet_2",
		"toggle dream off",
		"go Town",
		"exit",
		"status",
	}, "\n")

	out, err := execute(t, input, "run", "--no-watch", "--settings", path)
	require.NoError(t, err)
	assert.Contains(t, out, "scene=GG_Hornet_2 (boost) state=boosted nail=[")
	assert.Contains(t, out, "scene=Town state=normal")
	assert.Equal(t, 3, strings.Count(out, "scene="), "status after exit must not run")

	g, err := settings.LoadGlobal(path)
	require.NoError(t, err)
	assert.False(t, g.EnableDreamBosses)
	assert.True(t, g.EnableGodhome)
}

func TestRunRefusesWithoutRequiredMods(t *testing.T) {
	_, err := execute(t, "exit\n", "run", "--no-watch", "--mod", "ItemChangerMod")
	assert.ErrorIs(t, err, nail.ErrMissingDependency)
}

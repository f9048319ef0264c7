// Package console runs a text session against the in-memory host so the
// boost can be exercised by hand: travel between scenes, pick up upgrades,
// save, and watch the nail change.
package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/appengine-ltd/smartnail/internal/host"
	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/scenes"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

// ErrExit is returned by Execute when the user asks to leave.
var ErrExit = errors.New("exit")

var defaultStart = nail.Stats{Level: 0, Damage: 5}

const startScene = "Town"

type Session struct {
	host       *host.Host
	booster    *nail.Booster
	classifier *scenes.Classifier
	parser     *Parser
	out        io.Writer
	logger     *zap.Logger
	saveDir    string
}

type Option func(*Session)

// WithSaveDir persists the baseline next to each save slot.
func WithSaveDir(dir string) Option {
	return func(s *Session) { s.saveDir = dir }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewSession(h *host.Host, b *nail.Booster, out io.Writer, opts ...Option) *Session {
	s := &Session{
		host:       h,
		booster:    b,
		classifier: scenes.NewClassifier(),
		parser:     NewParser(),
		out:        out,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("console")
	return s
}

// Execute parses and runs one line. Problems with the input are written to
// the output; only ErrExit and persistence failures are returned.
func (s *Session) Execute(line string) error {
	intent := s.parser.Parse(line)
	if intent.Clarify != nil {
		s.printf("%s\n", intent.Clarify)
		return nil
	}
	s.logger.Debug("command", zap.String("verb", intent.Verb), zap.Strings("args", intent.Args))

	switch intent.Verb {
	case "help":
		s.help()
	case "new":
		stats, err := parseStats(intent.Args)
		if err != nil {
			s.printf("%v\n", err)
			return nil
		}
		s.host.NewGame(stats, startScene)
		s.status()
	case "continue":
		if err := s.continueGame(intent.Args); err != nil {
			s.printf("%v\n", err)
			return nil
		}
		s.status()
	case "go":
		scene := s.resolveScene(intent.Args[0])
		s.host.Transition(scene)
		s.status()
	case "reload":
		s.host.LoadScene(s.host.ActiveScene())
		s.status()
	case "pickup":
		n, err := countArg(intent.Args, 1)
		if err != nil {
			s.printf("%v\n", err)
			return nil
		}
		if s.host.Module() == nil {
			s.printf("no upgrade module registered\n")
			return nil
		}
		s.host.Pickup(n)
		s.printf("picked up %d nail upgrade(s)\n", n)
	case "tick":
		n, err := countArg(intent.Args, 1)
		if err != nil {
			s.printf("%v\n", err)
			return nil
		}
		for range n {
			s.booster.Poll()
		}
		s.status()
	case "save":
		slot, err := countArg(intent.Args, 1)
		if err != nil {
			s.printf("%v\n", err)
			return nil
		}
		return s.save(slot)
	case "toggle":
		if err := s.booster.Settings().SetEntry(entryName(intent.Args[0]), intent.Args[1]); err != nil {
			s.printf("%v\n", err)
			return nil
		}
		s.printToggles()
	case "module":
		switch strings.ToLower(intent.Args[0]) {
		case "on":
			s.host.RegisterModule(host.DefaultDamagePerUpgrade, s.unclaimed())
			s.printf("upgrade module registered\n")
		case "off":
			s.host.UnregisterModule()
			s.printf("upgrade module unregistered\n")
		default:
			s.printf("Usage: module on|off\n")
		}
	case "status":
		s.status()
	case "menu":
		s.host.QuitToMenu()
		s.status()
	case "exit":
		return ErrExit
	}
	return nil
}

func (s *Session) save(slot int) error {
	s.host.Save(slot)
	if s.saveDir == "" {
		s.printf("saved slot %d\n", slot)
		return nil
	}
	path := settings.LocalPath(s.saveDir, slot)
	if err := settings.SaveLocal(path, s.booster.OnSaveLocal()); err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	s.printf("saved slot %d to %s\n", slot, path)
	return nil
}

// continueGame loads a slot saved this session, with its baseline read from
// the save directory when one is set. Explicit stats load a file that carries
// no baseline yet.
func (s *Session) continueGame(args []string) error {
	if len(args) != 1 {
		stats, err := parseStats(args)
		if err != nil {
			return err
		}
		s.host.LoadGame(stats, startScene, nil)
		return nil
	}
	slot, err := countArg(args, 1)
	if err != nil {
		return err
	}
	saved, ok := s.host.Slot(slot)
	if !ok {
		return fmt.Errorf("no save in slot %d", slot)
	}
	local := saved.Local
	if s.saveDir != "" {
		l, err := settings.LoadLocal(settings.LocalPath(s.saveDir, slot))
		if err != nil {
			return fmt.Errorf("load slot %d: %w", slot, err)
		}
		local = &l
	}
	s.host.LoadGame(saved.Stats, startScene, local)
	return nil
}

// resolveScene maps near misses onto known boss scenes; anything else is
// taken as typed.
func (s *Session) resolveScene(arg string) string {
	suggestions := s.classifier.Suggest(arg)
	if len(suggestions) == 0 {
		return arg
	}
	if best := suggestions[0]; best.Scene != arg {
		s.printf("using %s for %s\n", best.Scene, arg)
		return best.Scene
	}
	return arg
}

func (s *Session) status() {
	scene := s.host.ActiveScene()
	if _, ok := s.host.PlayerData(); !ok {
		s.printf("scene=%s no game loaded\n", scene)
		return
	}
	stats := s.host.Stats()
	mark := ""
	if s.booster.IsBoostScene(scene) {
		mark = " (boost)"
	}
	s.printf("scene=%s%s state=%s nail=[%v] baseline=[%v] backup=%d unclaimed=%d\n",
		scene, mark, s.booster.State(), stats, s.booster.Baseline(),
		s.booster.Backup(), s.unclaimed())
}

func (s *Session) unclaimed() int {
	if m := s.host.Module(); m != nil {
		return m.UnclaimedUpgrades()
	}
	return 0
}

func (s *Session) printToggles() {
	for _, entry := range s.booster.Settings().MenuEntries() {
		s.printf("%s: %s\n", entry.Name, entry.Values[entry.Loader()])
	}
}

func (s *Session) help() {
	for _, def := range s.parser.Registry().Commands() {
		s.printf("  %s\n", def.Usage)
	}
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

func entryName(arg string) string {
	switch strings.ToLower(arg) {
	case "godhome", "gg":
		return "Godhome Scenes"
	case "dream", "dreams":
		return "Dream Bosses"
	default:
		return arg
	}
}

func countArg(args []string, def int) (int, error) {
	if len(args) == 0 {
		return def, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("expected a non-negative number, got %q", args[0])
	}
	return n, nil
}

func parseStats(args []string) (nail.Stats, error) {
	if len(args) == 0 {
		return defaultStart, nil
	}
	if len(args) < 2 {
		return nail.Stats{}, errors.New("give both level and damage")
	}
	level, err := strconv.Atoi(args[0])
	if err != nil {
		return nail.Stats{}, fmt.Errorf("level: %w", err)
	}
	damage, err := strconv.Atoi(args[1])
	if err != nil {
		return nail.Stats{}, fmt.Errorf("damage: %w", err)
	}
	stats := nail.Stats{Level: level, Damage: damage}
	if len(args) == 3 {
		honed, err := strconv.ParseBool(args[2])
		if err != nil {
			return nail.Stats{}, fmt.Errorf("honed: %w", err)
		}
		stats.Honed = honed
	}
	return stats, nil
}

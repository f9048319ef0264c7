package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/appengine-ltd/smartnail/internal/nail"
	"github.com/appengine-ltd/smartnail/internal/settings"
)

// version, commit, date are injected at build time with -ldflags -X.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// envConfig is read once per invocation; flags win over the environment.
type envConfig struct {
	SettingsPath string        `env:"SMARTNAIL_SETTINGS"`
	Verbose      bool          `env:"SMARTNAIL_VERBOSE"`
	PollInterval time.Duration `env:"SMARTNAIL_POLL_INTERVAL" envDefault:"250ms"`
	SettleDelay  time.Duration `env:"SMARTNAIL_SETTLE_DELAY" envDefault:"500ms"`
}

type app struct {
	env          envConfig
	verbose      bool
	settingsPath string
	logger       *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "smartnail",
		Short:         "Boost the nail with unclaimed upgrades during boss fights",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := env.Parse(&a.env); err != nil {
				return fmt.Errorf("parse env: %w", err)
			}
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose || a.env.Verbose)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.settingsPath, "settings", "", "global settings file (default: user config dir)")

	root.AddCommand(
		a.replayCmd(),
		a.runCmd(),
		a.scenesCmd(),
		a.settingsCmd(),
		versionCmd(),
	)
	return root
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Named("smartnail")
}

// globalPath resolves the settings file: --settings, then
// SMARTNAIL_SETTINGS, then the per-user config directory.
func (a *app) globalPath() (string, error) {
	if a.settingsPath != "" {
		return a.settingsPath, nil
	}
	if a.env.SettingsPath != "" {
		return a.env.SettingsPath, nil
	}
	return settings.DefaultGlobalPath()
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "SmartNail %s (build %s %s) mod %s\n", version, commit, date, nail.Version)
		},
	}
}

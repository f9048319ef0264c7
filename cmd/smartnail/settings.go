package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/appengine-ltd/smartnail/internal/settings"
)

func (a *app) settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the global toggles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the menu entries and their values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, path, err := a.loadStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			for _, entry := range store.MenuEntries() {
				fmt.Fprintf(out, "%-15s %-3s  %s\n", entry.Name, entry.Values[entry.Loader()], entry.Description)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME VALUE",
		Short: `Change one entry, e.g. settings set "Dream Bosses" Off`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, path, err := a.loadStore()
			if err != nil {
				return err
			}
			if err := store.SetEntry(args[0], args[1]); err != nil {
				return err
			}
			if err := settings.SaveGlobal(path, store.Global()); err != nil {
				return fmt.Errorf("save settings: %w", err)
			}
			a.logger.Info("settings saved", zap.String("path", path),
				zap.String("entry", args[0]), zap.String("value", args[1]))
			return nil
		},
	})
	return cmd
}

func (a *app) loadStore() (*settings.Store, string, error) {
	path, err := a.globalPath()
	if err != nil {
		return nil, "", fmt.Errorf("settings path: %w", err)
	}
	g, err := settings.LoadGlobal(path)
	if err != nil {
		return nil, "", fmt.Errorf("load settings: %w", err)
	}
	return settings.NewStore(g), path, nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appengine-ltd/smartnail/internal/scenes"
)

func (a *app) scenesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "Inspect the boss scene tables",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every boost scene by group",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			c := scenes.NewClassifier()
			out := cmd.OutOrStdout()
			for _, g := range c.Groups() {
				names := c.Scenes(g)
				fmt.Fprintf(out, "%s (%d)\n", g, len(names))
				for _, name := range names {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "check NAME",
		Short: "Report whether NAME is a boost scene, with near misses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := scenes.NewClassifier()
			out := cmd.OutOrStdout()
			name := args[0]
			if c.Excluded(name) {
				fmt.Fprintf(out, "%s: menu scene, never boosted\n", name)
				return nil
			}
			if g, ok := c.GroupOf(name); ok {
				fmt.Fprintf(out, "%s: %s boss scene\n", name, g)
				return nil
			}
			suggestions := c.Suggest(name)
			if len(suggestions) == 0 {
				fmt.Fprintf(out, "%s: not a boss scene\n", name)
				return nil
			}
			fmt.Fprintf(out, "%s: not a boss scene, did you mean:\n", name)
			for _, s := range suggestions {
				fmt.Fprintf(out, "  %s (%s, distance %d)\n", s.Scene, s.Group, s.Distance)
			}
			return nil
		},
	})
	return cmd
}

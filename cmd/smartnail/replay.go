package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/appengine-ltd/smartnail/internal/replay"
)

func (a *app) replayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "replay FILE...",
		Short: "Run scripted sessions and check their expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				s, err := replay.Load(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				res, err := replay.Run(s, a.logger.With(zap.String("script", s.Name)))
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", s.Name, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s steps=%d nail=[%v] unclaimed=%d gained=%d\n",
					res.Name, res.Steps, res.Final, res.Unclaimed, res.Gained)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d scripts failed", failed, len(args))
			}
			return nil
		},
	}
}

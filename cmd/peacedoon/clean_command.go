package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ld100/peacedoon/internal/builder"
	"github.com/ld100/peacedoon/internal/logging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAgeHours int

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale per-run scratch directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}

			maxAge := time.Duration(cfg.Workflow.ScratchMaxAgeHours) * time.Hour
			if maxAgeHours > 0 {
				maxAge = time.Duration(maxAgeHours) * time.Hour
			}

			result := builder.CleanScratch(cfg.ScratchDir(), maxAge, logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale scratch directories\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d directories could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeHours, "max-age-hours", 0, "Override the configured scratch retention window")
	return cmd
}

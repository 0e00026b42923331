package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ld100/peacedoon/internal/library"
)

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	var slug string

	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "List published episodes for a podcast",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := library.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListEpisodes(cmd.Context(), slug)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintf(out, "No episodes recorded for %q\n", slug)
				return nil
			}

			if !isTerminal(out) {
				for _, record := range records {
					fmt.Fprintf(out, "%s\t%s\t%d\t%s\n",
						record.ArticleID, record.Title, record.FileSizeBytes,
						record.RenderedAt.Format(time.RFC3339))
				}
				return nil
			}

			headers := []string{"Article", "Title", "Size", "Rendered", "URL"}
			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.ArticleID,
					truncate(record.Title, 48),
					formatBytes(record.FileSizeBytes),
					record.RenderedAt.Format("2006-01-02 15:04"),
					record.AudioURL,
				})
			}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVarP(&slug, "slug", "s", "", "Podcast slug (required)")
	_ = cmd.MarkFlagRequired("slug")

	return cmd
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	if limit <= 3 {
		return s[:limit]
	}
	return s[:limit-3] + "..."
}

func formatBytes(size int64) string {
	const unit = 1024
	if size < unit {
		return strconv.FormatInt(size, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(size) / float64(div)
	return strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0") + " " + string("KMGTPE"[exp]) + "iB"
}

package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tvindex/internal/ingest"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest saved listing pages",
		Long: "Ingest saved listing pages. Each file is either the JSON document the browser\n" +
			"extension posts ({\"page_url\", \"page_source\"}) or raw HTML.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			svc := ingest.NewService(cfg, ctx.log())
			out := cmd.OutOrStdout()

			var total ingest.Stats
			for _, path := range args {
				page, err := ingest.LoadPage(path)
				if err != nil {
					return err
				}
				if pageURL != "" {
					page.URL = pageURL
				}
				stats, err := svc.Ingest(cmd.Context(), page.URL, []byte(page.Source))
				if err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
				fmt.Fprintf(out, "%s: %s added, %s already known, %s rows skipped\n", path,
					humanize.Comma(int64(stats.FilesAdded)),
					humanize.Comma(int64(stats.FilesSkipped)),
					humanize.Comma(int64(stats.RowsSkipped)))
				total.FilesAdded += stats.FilesAdded
				total.FilesSkipped += stats.FilesSkipped
				total.RowsSkipped += stats.RowsSkipped
			}
			if len(args) > 1 {
				fmt.Fprintf(out, "total: %s added, %s already known, %s rows skipped\n",
					humanize.Comma(int64(total.FilesAdded)),
					humanize.Comma(int64(total.FilesSkipped)),
					humanize.Comma(int64(total.RowsSkipped)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "Page URL to record instead of the one in the file")
	return cmd
}

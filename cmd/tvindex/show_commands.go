package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tvindex/internal/api"
	"tvindex/internal/catalog"
)

func newShowsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var subscribedOnly bool

	cmd := &cobra.Command{
		Use:   "shows",
		Short: "List every show in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				shows, err := cat.Shows()
				if err != nil {
					return err
				}
				if subscribedOnly {
					kept := shows[:0]
					for _, s := range shows {
						if s.Subscribed {
							kept = append(kept, s)
						}
					}
					shows = kept
				}
				if jsonOut {
					return writeJSON(cmd, api.ShowListResponse{Shows: api.FromShows(shows)})
				}
				out := cmd.OutOrStdout()
				if len(shows) == 0 {
					fmt.Fprintln(out, "No shows catalogued")
					return nil
				}
				fmt.Fprintln(out, renderTable(showHeaders, showRows(shows), showAligns, shouldColorize(out)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&subscribedOnly, "subscribed", false, "Only list subscribed shows")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <title>",
		Short: "Show the episodes and files of one show",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				show, err := cat.Show(title)
				if errors.Is(err, catalog.ErrNotFound) {
					return fmt.Errorf("no show named %q; try `tvindex search %s`", title, title)
				}
				if err != nil {
					return err
				}
				episodes, err := cat.Episodes(show.Key)
				if err != nil {
					return err
				}
				files, err := cat.Files(show.Key)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, line := range renderSectionHeader(show.Title, colorize) {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "Subscribed: %s  Watchlist: %s  Seasons: %s\n",
					yesNo(show.Subscribed), yesNo(show.Watchlist), seasonsLabel(show.Seasons))

				if len(episodes) > 0 {
					rows := make([][]string, 0, len(episodes))
					for _, ep := range episodes {
						rows = append(rows, []string{
							ep.ID.String(),
							ep.Title,
							humanize.Comma(int64(len(ep.Files))),
							yesNo(ep.Downloaded),
							yesNo(ep.Viewed),
							yesNo(ep.Deleted),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"Episode", "Title", "Files", "Downloaded", "Viewed", "Deleted"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
						colorize,
					))
				}

				if len(files) > 0 {
					rows := make([][]string, 0, len(files))
					for _, f := range files {
						episode := "-"
						if f.Episode != nil {
							episode = f.Episode.String()
						}
						rows = append(rows, []string{
							f.Key,
							episode,
							sizeLabel(f.Info.FilesizeBytes, f.Info.FilesizeText),
							humanize.Comma(int64(f.Info.Seeds)),
							dateLabel(f.Info.Added),
							stateLabel(f.State, colorize),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"File", "Episode", "Size", "Seeds", "Added", "State"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
						colorize,
					))
				}
				return nil
			})
		},
	}
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search show titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withCatalog(func(cat *catalog.Catalog) error {
				shows, err := cat.Search(query)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(shows) == 0 {
					fmt.Fprintf(out, "No shows match %q\n", query)
					return nil
				}
				fmt.Fprintln(out, renderTable(showHeaders, showRows(shows), showAligns, shouldColorize(out)))
				return nil
			})
		},
	}
}

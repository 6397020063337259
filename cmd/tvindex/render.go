package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tvindex/internal/catalog"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func paint(s, color string, colorize bool) string {
	if !colorize || color == "" {
		return s
	}
	return color + s + ansiReset
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	return []string{paint(line, ansiBlue, colorize), paint(rule, ansiBlue, colorize)}
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func stateLabel(state catalog.FileState, colorize bool) string {
	switch state {
	case catalog.StateQueued:
		return paint(state.String(), ansiYellow, colorize)
	case catalog.StateDownloaded:
		return paint(state.String(), ansiGreen, colorize)
	default:
		return state.String()
	}
}

func seasonsLabel(seasons []int) string {
	if len(seasons) == 0 {
		return "-"
	}
	parts := make([]string, len(seasons))
	for i, s := range seasons {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ",")
}

func sizeLabel(n int64, raw string) string {
	if n <= 0 {
		if raw == "" {
			return "-"
		}
		return raw
	}
	return humanize.IBytes(uint64(n))
}

func dateLabel(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func showRows(shows []catalog.Show) [][]string {
	rows := make([][]string, 0, len(shows))
	for _, show := range shows {
		rows = append(rows, []string{
			show.Title,
			seasonsLabel(show.Seasons),
			humanize.Comma(int64(len(show.Episodes))),
			humanize.Comma(int64(len(show.Unindexed))),
			yesNo(show.Subscribed),
			yesNo(show.Watchlist),
		})
	}
	return rows
}

var showHeaders = []string{"Title", "Seasons", "Episodes", "Unindexed", "Subscribed", "Watchlist"}
var showAligns = []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft}

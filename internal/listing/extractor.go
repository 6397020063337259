package listing

import (
	"bytes"
	"iter"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tvindex/internal/config"
	"tvindex/internal/logging"
	"tvindex/internal/titlescan"
)

const (
	dateColumns    = 1
	releaseColumns = 7
)

// Options carries the page-format knobs.
type Options struct {
	// StripShowSuffix is removed from the end of the show anchor's title attribute.
	StripShowSuffix string
	// DateLayout is the time layout of date rows.
	DateLayout string
}

// OptionsFromConfig builds extractor options from the ingest section.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{StripShowSuffix: cfg.Ingest.StripShowSuffix, DateLayout: cfg.Ingest.DateLayout}
}

// Extractor parses listing pages.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

// NewExtractor returns an extractor. Zero option fields take the site defaults.
func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	defaults := config.Default().Ingest
	if opts.StripShowSuffix == "" {
		opts.StripShowSuffix = defaults.StripShowSuffix
	}
	if opts.DateLayout == "" {
		opts.DateLayout = defaults.DateLayout
	}
	return &Extractor{opts: opts, logger: logging.NewComponentLogger(logger, "listing")}
}

// Records returns the release records of a page in document order. Rows that
// cannot be parsed are logged and left out. The returned sequence may be
// ranged over more than once; each pass starts again from the first row.
func (e *Extractor) Records(markup []byte) (iter.Seq[Record], error) {
	rows, err := e.Rows(markup)
	if err != nil {
		return nil, err
	}
	return func(yield func(Record) bool) {
		for rec, err := range rows {
			if err != nil {
				continue
			}
			if !yield(rec) {
				return
			}
		}
	}, nil
}

// Extract collects every record of a page.
func (e *Extractor) Extract(markup []byte) ([]Record, error) {
	seq, err := e.Records(markup)
	if err != nil {
		return nil, err
	}
	return slices.Collect(seq), nil
}

// Rows is Records with the failures kept: each skipped release row is yielded
// once with a non-nil error.
func (e *Extractor) Rows(markup []byte) (iter.Seq2[Record, error], error) {
	doc, err := html.Parse(bytes.NewReader(markup))
	if err != nil {
		return nil, &StructuralError{Reason: "parse markup", Err: err}
	}
	heading := findFirst(doc, atom.H1)
	if heading == nil {
		return nil, &StructuralError{Reason: "no <h1> on page", Err: ErrNoListing}
	}
	headRow := enclosing(heading, atom.Tr)
	if headRow == nil {
		return nil, &StructuralError{Reason: "<h1> is not inside a table row", Err: ErrNoListing}
	}

	return func(yield func(Record, error) bool) {
		var ambient time.Time
		row := 0
		// The first row after the heading holds the column labels.
		for tr := nextRow(nextRow(headRow)); tr != nil; tr = nextRow(tr) {
			row++
			cells := columns(tr)
			switch len(cells) {
			case dateColumns:
				date, err := e.parseDate(cells[0])
				if err != nil {
					serr := &StructuralError{Row: row, Reason: "unparsable date row", Err: err}
					logging.WarnWithContext(e.logger, "date row skipped", "listing_date_invalid",
						logging.Int(logging.FieldRow, row),
						logging.Error(serr),
						logging.String(logging.FieldImpact, "following rows keep the previous date"),
						logging.String(logging.FieldErrorHint, "check date_layout against the page"),
					)
					continue
				}
				ambient = date
			case releaseColumns:
				rec, err := e.parseRelease(cells, row, ambient)
				if err != nil {
					logging.WarnWithContext(e.logger, "release row skipped", "listing_row_skipped",
						logging.Int(logging.FieldRow, row),
						logging.Error(err),
						logging.String(logging.FieldImpact, "release not catalogued"),
					)
				}
				if !yield(rec, err) {
					return
				}
			default:
				e.logger.Debug("row ignored", logging.Int(logging.FieldRow, row), logging.Int("columns", len(cells)))
			}
		}
	}, nil
}

func (e *Extractor) parseDate(cell *html.Node) (time.Time, error) {
	src := cell
	if b := findFirst(cell, atom.B); b != nil {
		src = b
	}
	return time.Parse(e.opts.DateLayout, textContent(src))
}

func (e *Extractor) parseRelease(cells []*html.Node, row int, added time.Time) (Record, error) {
	rec := Record{Row: row, Added: added}

	showAnchor := findFirst(cells[0], atom.A)
	if showAnchor == nil {
		return rec, &RowError{Row: row, Missing: "show anchor"}
	}
	show, ok := attr(showAnchor, "title")
	if !ok {
		show = textContent(showAnchor)
	}
	rec.ShowTitle = strings.TrimSpace(strings.TrimSuffix(show, e.opts.StripShowSuffix))
	if rec.ShowTitle == "" {
		return rec, &RowError{Row: row, Missing: "show title"}
	}

	rec.EpisodeTitle = textContent(cells[1])
	if rec.EpisodeTitle == "" {
		return rec, &RowError{Row: row, Missing: "episode title"}
	}

	magnet := findMatch(cells[2], func(n *html.Node) bool {
		return n.DataAtom == atom.A && hasClass(n, "magnet")
	})
	if magnet == nil {
		return rec, &RowError{Row: row, Missing: "magnet link"}
	}
	rec.Magnet, _ = attr(magnet, "href")
	rec.Magnet = strings.TrimSpace(rec.Magnet)
	if rec.Magnet == "" {
		return rec, &RowError{Row: row, Missing: "magnet link"}
	}
	if torrent := nextSiblingElement(magnet, atom.A); torrent != nil {
		rec.Torrent, _ = attr(torrent, "href")
	}

	rec.FilesizeText = textContent(cells[3])
	size, err := parseSize(rec.FilesizeText)
	if err != nil {
		e.logger.Debug("filesize not parsed", logging.Int(logging.FieldRow, row), logging.String("filesize", rec.FilesizeText), logging.Error(err))
	}
	rec.FilesizeBytes = size

	seeds, err := parseSeeds(textContent(cells[5]))
	if err != nil {
		e.logger.Debug("seed count not parsed", logging.Int(logging.FieldRow, row), logging.Error(err))
	}
	rec.Seeds = seeds

	scan := titlescan.Scan(rec.EpisodeTitle, rec.ShowTitle)
	if scan.Mismatch {
		logging.WarnWithContext(e.logger, "release title does not start with show title", "title_mismatch",
			logging.Int(logging.FieldRow, row),
			logging.String("title", rec.EpisodeTitle),
			logging.String("show_title", rec.ShowTitle),
			logging.String(logging.FieldImpact, "metadata may be incomplete"),
		)
	}
	for _, d := range scan.Defects {
		e.logger.Debug("title token dropped", logging.Int(logging.FieldRow, row), logging.String("defect", d.Error()))
	}
	rec.Meta = scan.Metadata
	return rec, nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	return findMatch(n, func(c *html.Node) bool { return c.DataAtom == a })
}

func findMatch(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMatch(c, match); found != nil {
			return found
		}
	}
	return nil
}

func enclosing(n *html.Node, a atom.Atom) *html.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.DataAtom == a {
			return p
		}
	}
	return nil
}

func nextRow(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	return nextSiblingElement(n, atom.Tr)
}

func nextSiblingElement(n *html.Node, a atom.Atom) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode && s.DataAtom == a {
			return s
		}
	}
	return nil
}

// columns returns the element children of a row. Text between cells and
// comments do not count.
func columns(tr *html.Node) []*html.Node {
	var cells []*html.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			cells = append(cells, c)
		}
	}
	return cells
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	return ok && slices.Contains(strings.Fields(v), class)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

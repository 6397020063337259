package titlescan

import (
	"fmt"
	"strconv"
	"strings"
)

// Metadata is the release information folded out of a title's tokens.
type Metadata struct {
	EpisodeIndex []string `json:"ep_idx,omitempty"`
	Season       int      `json:"season,omitempty"`
	Episode      int      `json:"episode,omitempty"`
	HasEpisode   bool     `json:"has_episode,omitempty"`
	Resolution   string   `json:"res,omitempty"`
	Source       string   `json:"tv_source,omitempty"`
	Distributor  string   `json:"distrib,omitempty"`
	Flags        []string `json:"flags,omitempty"`
	Encoder      string   `json:"rip_source,omitempty"`
	Extra        string   `json:"extra,omitempty"`
}

// Defect records a token whose value could not be converted. The token is
// dropped from Metadata.
type Defect struct {
	Token Token
	Err   error
}

func (d Defect) Error() string {
	return fmt.Sprintf("%s token %q: %v", d.Token.Kind, d.Token.Text, d.Err)
}

// Result is the outcome of scanning one release title.
type Result struct {
	Metadata
	// Prefix is the show title with "(", ")" and ":" removed.
	Prefix string
	// Remainder is the text that was tokenized.
	Remainder string
	Tokens    []Token
	// Mismatch is set when the title does not start with Prefix.
	Mismatch bool
	Defects  []Defect
}

// CleanShowTitle removes the characters release names drop from show titles.
func CleanShowTitle(showTitle string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '(', ')', ':':
			return -1
		}
		return r
	}, showTitle)
}

// Scan strips the cleaned show title plus one separator from title and
// tokenizes what is left. A title that does not start with the show title is
// flagged but still scanned.
func Scan(title, showTitle string) Result {
	prefix := CleanShowTitle(showTitle)
	res := Result{
		Prefix:   prefix,
		Mismatch: !strings.HasPrefix(strings.ToLower(title), strings.ToLower(prefix)),
	}

	runes := []rune(title)
	if skip := len([]rune(prefix)) + 1; skip < len(runes) {
		res.Remainder = string(runes[skip:])
	}

	res.Tokens = Tokenize(res.Remainder)
	res.Metadata, res.Defects = fold(res.Tokens)
	res.Extra = leftover(res.Remainder, res.Tokens)
	return res
}

func fold(tokens []Token) (Metadata, []Defect) {
	var md Metadata
	var defects []Defect
	for _, tok := range tokens {
		switch tok.Kind {
		case KindEpisodeIndex:
			season, err := strconv.Atoi(tok.Parts[1])
			if err != nil {
				defects = append(defects, Defect{Token: tok, Err: err})
				continue
			}
			episode, err := strconv.Atoi(tok.Parts[3])
			if err != nil {
				defects = append(defects, Defect{Token: tok, Err: err})
				continue
			}
			md.EpisodeIndex = tok.Parts
			md.Season, md.Episode, md.HasEpisode = season, episode, true
		case KindResolution:
			md.Resolution = tok.Text
		case KindSource:
			md.Source = tok.Text
		case KindDistributor:
			md.Distributor = tok.Text
		case KindFlag:
			md.Flags = append(md.Flags, tok.Text)
		case KindEncoder:
			md.Encoder = tok.Text
		}
	}
	return md, defects
}

// leftover joins the spans no token claimed. It is only reported when the
// trimmed result still appears verbatim in s.
func leftover(s string, tokens []Token) string {
	var b strings.Builder
	last := 0
	for _, tok := range tokens {
		b.WriteString(s[last:tok.Start])
		last = tok.End
	}
	b.WriteString(s[last:])
	out := strings.TrimSpace(b.String())
	if out == "" || !strings.Contains(s, out) {
		return ""
	}
	return out
}

// Label formats an episode index as S01E02, or "" when there is none.
func (m Metadata) Label() string {
	if !m.HasEpisode {
		return ""
	}
	return fmt.Sprintf("S%02dE%02d", m.Season, m.Episode)
}

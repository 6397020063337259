package titlescan

import "strings"

type matcher struct {
	kind  Kind
	match func(s string, at int) (end int, parts []string, ok bool)
}

// grammar is tried in order at every position; the first match wins.
var grammar = []matcher{
	{KindEpisodeIndex, matchEpisodeIndex},
	{KindResolution, keywords("720p", "1080p")},
	{KindSource, keywords("HDTV", "WEB")},
	{KindDistributor, keywords("[eztv]")},
	{KindFlag, keywords("PROPER", "REPACK")},
	{KindEncoder, matchEncoder},
	{KindFiller, matchFiller},
}

// Tokenize scans s left to right and returns every grammar match in order.
// Matches never overlap; characters no pattern claims are skipped.
func Tokenize(s string) []Token {
	var tokens []Token
	for at := 0; at < len(s); {
		if !wordStart(s, at) && s[at] != '.' {
			at++
			continue
		}
		matched := false
		for _, m := range grammar {
			end, parts, ok := m.match(s, at)
			if !ok || end <= at {
				continue
			}
			tokens = append(tokens, Token{Kind: m.kind, Text: s[at:end], Start: at, End: end, Parts: parts})
			at = end
			matched = true
			break
		}
		if !matched {
			at++
		}
	}
	return tokens
}

// identChar reports whether b can be part of a keyword, so keywords only
// match when flanked by something else.
func identChar(b byte) bool {
	return isAlpha(b) || isDigit(b) || b == '_' || b == '$'
}

func wordStart(s string, at int) bool {
	return at == 0 || !identChar(s[at-1])
}

func wordEnd(s string, end int) bool {
	return end >= len(s) || !identChar(s[end])
}

func isAlpha(b byte) bool { return (b|0x20) >= 'a' && (b|0x20) <= 'z' }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }

func keywords(words ...string) func(string, int) (int, []string, bool) {
	return func(s string, at int) (int, []string, bool) {
		for _, w := range words {
			if strings.HasPrefix(s[at:], w) && wordStart(s, at) && wordEnd(s, at+len(w)) {
				return at + len(w), nil, true
			}
		}
		return 0, nil, false
	}
}

func digitsAt(s string, at int) int {
	end := at
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	return end
}

// matchEpisodeIndex accepts S<digits>E<digits>, either letter in any case.
func matchEpisodeIndex(s string, at int) (int, []string, bool) {
	if at >= len(s) || (s[at]|0x20) != 's' {
		return 0, nil, false
	}
	seasonEnd := digitsAt(s, at+1)
	if seasonEnd == at+1 || seasonEnd >= len(s) || (s[seasonEnd]|0x20) != 'e' {
		return 0, nil, false
	}
	episodeEnd := digitsAt(s, seasonEnd+1)
	if episodeEnd == seasonEnd+1 {
		return 0, nil, false
	}
	return episodeEnd, []string{"S", s[at+1 : seasonEnd], "E", s[seasonEnd+1 : episodeEnd]}, true
}

// matchEncoder accepts <letters>264-<alnum>, e.g. x264-GROUP or H264-RBB.
func matchEncoder(s string, at int) (int, []string, bool) {
	i := at
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == at || !strings.HasPrefix(s[i:], "264-") {
		return 0, nil, false
	}
	i += len("264-")
	groupStart := i
	for i < len(s) && isAlnum(s[i]) {
		i++
	}
	if i == groupStart {
		return 0, nil, false
	}
	return i, nil, true
}

var fillerWords = []string{"CONVERT", "INTERNAL", "REAL"}

func matchFiller(s string, at int) (int, []string, bool) {
	if strings.HasPrefix(s[at:], "...") {
		return at + 3, nil, true
	}
	for _, w := range fillerWords {
		end := at + len(w)
		if end <= len(s) && strings.EqualFold(s[at:end], w) && wordEnd(s, end) {
			return end, nil, true
		}
	}
	return 0, nil, false
}

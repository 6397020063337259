package listing

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseSize converts a listing size such as "700 MiB", "1.2 GB" or "350 MB"
// into bytes. Units are binary, as the site reports them. Anything that does
// not parse yields 0.
func ParseSize(s string) int64 {
	size, err := parseSize(s)
	if err != nil {
		return 0
	}
	return size
}

func parseSize(s string) (int64, error) {
	t := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(s), "Bb"))
	if t != "" {
		switch last := t[len(t)-1]; {
		case last == 'i':
			t += "B"
		case isUnitLetter(last):
			t += "iB"
		}
	}
	n, err := humanize.ParseBytes(t)
	if err != nil {
		return 0, err
	}
	if n > 1<<62 {
		return 0, strconv.ErrRange
	}
	return int64(n), nil
}

func isUnitLetter(b byte) bool {
	switch b | 0x20 {
	case 'k', 'm', 'g', 't', 'p', 'e':
		return true
	}
	return false
}

// ParseSeeds converts a seed count cell. "-" means no seeds and thousands
// separators are ignored; anything else that does not parse yields 0.
func ParseSeeds(s string) int {
	n, err := parseSeeds(s)
	if err != nil {
		return 0
	}
	return n
}

func parseSeeds(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return 0, nil
	}
	return strconv.Atoi(strings.ReplaceAll(s, ",", ""))
}

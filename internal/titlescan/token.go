package titlescan

import "fmt"

// Kind classifies a token produced by Tokenize.
type Kind int

// Token kinds in match priority order.
const (
	KindEpisodeIndex Kind = iota + 1
	KindResolution
	KindSource
	KindDistributor
	KindFlag
	KindEncoder
	KindFiller
)

func (k Kind) String() string {
	switch k {
	case KindEpisodeIndex:
		return "episode_index"
	case KindResolution:
		return "resolution"
	case KindSource:
		return "source"
	case KindDistributor:
		return "distributor"
	case KindFlag:
		return "flag"
	case KindEncoder:
		return "encoder"
	case KindFiller:
		return "filler"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Token is one grammar match. Start and End are byte offsets into the
// tokenized string; Text is the matched slice.
type Token struct {
	Kind  Kind
	Text  string
	Start int
	End   int
	// Parts holds the structured value of an episode index:
	// "S", season digits, "E", episode digits.
	Parts []string
}

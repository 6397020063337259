package titlescan_test

import (
	"reflect"
	"strings"
	"testing"

	"tvindex/internal/titlescan"
)

func TestScanFullRelease(t *testing.T) {
	res := titlescan.Scan("Show Name S01E02 720p HDTV x264-GROUP", "Show Name")

	if res.Mismatch {
		t.Fatal("expected prefix to match")
	}
	if !res.HasEpisode || res.Season != 1 || res.Episode != 2 {
		t.Fatalf("unexpected episode index: %+v", res.Metadata)
	}
	if want := []string{"S", "01", "E", "02"}; !reflect.DeepEqual(res.EpisodeIndex, want) {
		t.Fatalf("episode parts = %v, want %v", res.EpisodeIndex, want)
	}
	if res.Resolution != "720p" {
		t.Fatalf("resolution = %q", res.Resolution)
	}
	if res.Source != "HDTV" {
		t.Fatalf("source = %q", res.Source)
	}
	if !strings.Contains(res.Encoder, "x264-GROUP") {
		t.Fatalf("encoder = %q", res.Encoder)
	}
	if res.Extra != "" {
		t.Fatalf("expected no leftover, got %q", res.Extra)
	}
}

func TestScanLeftover(t *testing.T) {
	res := titlescan.Scan("Show Name S01E02 Something Extra HDTV", "Show Name")
	if res.Extra != "Something Extra" {
		t.Fatalf("leftover = %q, want %q", res.Extra, "Something Extra")
	}
	if res.Source != "HDTV" {
		t.Fatalf("source = %q", res.Source)
	}
}

func TestScanLeftoverMustBeContiguous(t *testing.T) {
	// Removing 720p leaves "Alpha  Beta", which is not in the original text.
	res := titlescan.Scan("Show Alpha 720p Beta", "Show")
	if res.Extra != "" {
		t.Fatalf("expected non-contiguous leftover to be dropped, got %q", res.Extra)
	}
}

func TestScanStripsCleanedShowTitle(t *testing.T) {
	res := titlescan.Scan("Marvels Agents of SHIELD S05E01 HDTV x264-SVA [eztv]", "Marvel's Agents of S.H.I.E.L.D.")
	if !res.Mismatch {
		t.Fatal("expected mismatch for differently punctuated title")
	}

	res = titlescan.Scan("Doctor Who 2005 S10E01 1080p WEB x264-KOMPOST [eztv]", "Doctor Who (2005)")
	if res.Mismatch {
		t.Fatal("parentheses should be removed before comparing")
	}
	if res.Prefix != "Doctor Who 2005" {
		t.Fatalf("prefix = %q", res.Prefix)
	}
	if res.Season != 10 || res.Episode != 1 {
		t.Fatalf("unexpected index %+v", res.Metadata)
	}
	if res.Distributor != "[eztv]" || res.Resolution != "1080p" || res.Source != "WEB" {
		t.Fatalf("unexpected metadata %+v", res.Metadata)
	}
}

func TestScanMismatchStillScans(t *testing.T) {
	res := titlescan.Scan("Other S02E03 PROPER", "Show")
	if !res.Mismatch {
		t.Fatal("expected mismatch")
	}
	// Five characters are stripped regardless, so the index is still found.
	if res.Remainder != " S02E03 PROPER" {
		t.Fatalf("remainder = %q", res.Remainder)
	}
	if res.Season != 2 || res.Episode != 3 {
		t.Fatalf("unexpected index %+v", res.Metadata)
	}
	if !reflect.DeepEqual(res.Flags, []string{"PROPER"}) {
		t.Fatalf("flags = %v", res.Flags)
	}
}

func TestScanFillerIsDiscarded(t *testing.T) {
	res := titlescan.Scan("Show s03e07 INTERNAL Real REPACK convert HDTV x264-GRP...", "Show")
	if res.Extra != "" {
		t.Fatalf("filler should not reach leftover, got %q", res.Extra)
	}
	if res.Season != 3 || res.Episode != 7 {
		t.Fatalf("unexpected index %+v", res.Metadata)
	}
	if !reflect.DeepEqual(res.Flags, []string{"REPACK"}) {
		t.Fatalf("flags = %v", res.Flags)
	}
}

func TestScanTitleShorterThanPrefix(t *testing.T) {
	res := titlescan.Scan("Show", "Show")
	if res.Remainder != "" || res.HasEpisode || res.Extra != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestScanOverflowIsDefect(t *testing.T) {
	res := titlescan.Scan("Show S99999999999999999999E01 HDTV", "Show")
	if res.HasEpisode {
		t.Fatalf("overflowing index should not be used: %+v", res.Metadata)
	}
	if len(res.Defects) != 1 || res.Defects[0].Token.Kind != titlescan.KindEpisodeIndex {
		t.Fatalf("expected one episode defect, got %v", res.Defects)
	}
	if res.Source != "HDTV" {
		t.Fatalf("scan should continue past defect, got %+v", res.Metadata)
	}
}

func TestTokenizeSpans(t *testing.T) {
	s := "S01E02 720p HDTV [eztv]"
	tokens := titlescan.Tokenize(s)
	wantKinds := []titlescan.Kind{
		titlescan.KindEpisodeIndex,
		titlescan.KindResolution,
		titlescan.KindSource,
		titlescan.KindDistributor,
	}
	if len(tokens) != len(wantKinds) {
		t.Fatalf("got %d tokens, want %d: %+v", len(tokens), len(wantKinds), tokens)
	}
	for i, tok := range tokens {
		if tok.Kind != wantKinds[i] {
			t.Fatalf("token %d kind = %v, want %v", i, tok.Kind, wantKinds[i])
		}
		if s[tok.Start:tok.End] != tok.Text {
			t.Fatalf("token %d span %d:%d does not match text %q", i, tok.Start, tok.End, tok.Text)
		}
	}
}

func TestTokenizeKeywordBoundaries(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"WEBRip", 0},
		{"HDTVx", 0},
		{"x1080p", 0},
		{"Realm", 0},
		{"WEB-DL", 1},
		{"(720p)", 1},
	}
	for _, tc := range cases {
		if got := len(titlescan.Tokenize(tc.in)); got != tc.want {
			t.Errorf("Tokenize(%q) returned %d tokens, want %d", tc.in, got, tc.want)
		}
	}
}

func TestMetadataLabel(t *testing.T) {
	res := titlescan.Scan("Show S3E7", "Show")
	if got := res.Label(); got != "S03E07" {
		t.Fatalf("label = %q", got)
	}
	if got := (titlescan.Metadata{}).Label(); got != "" {
		t.Fatalf("empty label = %q", got)
	}
}

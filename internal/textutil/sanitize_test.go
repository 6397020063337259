package textutil

import "testing"

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"EZTV.re", "eztv.re"},
		{"Show Name!", "show_name"},
		{"   ", "page"},
		{"__..--", "page"},
	}
	for _, tt := range tests {
		if got := SanitizeToken(tt.input, "page"); got != tt.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHostToken(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://eztv.re/page_1", "eztv.re"},
		{"http://EZTV.ag:8080/x?y=1", "eztv.ag"},
		{"file:///tmp/page.html", "page"},
		{"", "page"},
		{"::not a url", "page"},
	}
	for _, tt := range tests {
		if got := HostToken(tt.input, "page"); got != tt.want {
			t.Errorf("HostToken(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

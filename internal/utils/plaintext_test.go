package utils

import "testing"

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "   ", ""},
		{"plain", "Just words.", "Just words."},
		{"markdown", "# Title\n\nSome *emphasis* and `code`.", "Title\n\nSome emphasis and code."},
		{"html", "<p>One <strong>two</strong></p><script>alert(1)</script>", "One two"},
		{"entities", "<p>Fish &amp; chips</p>", "Fish & chips"},
		{"soft break", "line one\nline two", "line one line two"},
		{"list", "- a\n- b", "a\n\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one", 1},
		{"  two   words ", 2},
		{"## Heading\n\nbody *text* here", 4},
		{"<p>a <em>b</em> c</p>", 3},
	}
	for _, tt := range tests {
		if got := CountWords(tt.in); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

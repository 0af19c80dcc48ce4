package tunnel

import "testing"

func TestURLMatcherExtract(t *testing.T) {
	m := NewURLMatcher("trycloudflare.com")

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			"url in noisy log line",
			"2026-08-30T10:00:00Z INF +  https://witty-walrus-fn.trycloudflare.com  +",
			"https://witty-walrus-fn.trycloudflare.com",
			true,
		},
		{
			"first match wins",
			"https://one-a.trycloudflare.com then https://two-b.trycloudflare.com",
			"https://one-a.trycloudflare.com",
			true,
		},
		{"no match", "connecting to edge...", "", false},
		{"wrong domain", "https://abc.example.com", "", false},
		{"empty input", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Extract(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Extract(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestURLMatcherEscapesDomain(t *testing.T) {
	// The dot in the domain must not match arbitrary characters.
	m := NewURLMatcher("trycloudflare.com")
	if _, ok := m.Extract("https://abc.trycloudflareXcom"); ok {
		t.Error("unescaped domain separator matched")
	}
}

package tunnel

import "regexp"

// URLMatcher extracts the public tunnel URL from free-form log text.
// The matching strategy lives behind this one type so it can be swapped
// (say, for structured tunnel logs) without touching the retry policy.
type URLMatcher struct {
	re *regexp.Regexp
}

// NewURLMatcher builds a matcher for https://<token>.<domain> URLs.
func NewURLMatcher(domain string) *URLMatcher {
	return &URLMatcher{
		re: regexp.MustCompile(`https://[A-Za-z0-9-]+\.` + regexp.QuoteMeta(domain)),
	}
}

// Extract returns the first URL in text, if any.
func (m *URLMatcher) Extract(text string) (string, bool) {
	url := m.re.FindString(text)
	return url, url != ""
}

package resolver

import (
	"net/url"
	"strings"
)

// pathRule pairs a predicate on the escaped path with the extractor used
// when it matches. Segments are still escaped.
type pathRule struct {
	Name    string
	Match   func(path string) bool
	Extract func(u *url.URL, segments []string) string
}

// rules are evaluated in order; the first match wins.
var rules = []pathRule{
	{
		Name:    "friends",
		Match:   func(p string) bool { return strings.Contains(p, "/friends/") },
		Extract: func(u *url.URL, _ []string) string { return u.Query().Get("profile_id") },
	},
	{
		// /groups/<group>/user/<key>
		Name:    "groups",
		Match:   func(p string) bool { return strings.Contains(p, "/groups/") },
		Extract: func(_ *url.URL, s []string) string { return segment(s, 3) },
	},
	{
		// /t/<key>; end-to-end encrypted threads carry no usable key
		Name: "thread",
		Match: func(p string) bool {
			return strings.Contains(p, "/t/") && !strings.Contains(p, "/e2ee/")
		},
		Extract: func(_ *url.URL, s []string) string { return segment(s, 1) },
	},
	{
		Name:    "profile.php",
		Match:   func(p string) bool { return p == "/profile.php" },
		Extract: func(u *url.URL, _ []string) string { return u.Query().Get("id") },
	},
	{
		Name:    "slug",
		Match:   func(string) bool { return true },
		Extract: func(_ *url.URL, s []string) string { return segment(s, len(s)-1) },
	},
}

// ExtractKey runs u through the rule table and returns the lookup key
// together with the name of the rule that produced it. The key is empty
// when the matching rule found nothing.
func ExtractKey(u *url.URL) (key, rule string) {
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	segments := splitPath(path)

	for _, r := range rules {
		if r.Match(path) {
			return r.Extract(u, segments), r.Name
		}
	}
	return "", ""
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// segment returns the unescaped i-th segment, or "" when out of range.
func segment(s []string, i int) string {
	if i < 0 || i >= len(s) {
		return ""
	}
	v, err := url.PathUnescape(s[i])
	if err != nil {
		return s[i]
	}
	return v
}

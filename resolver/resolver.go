// Package resolver maps profile URLs to numeric profile ids.
package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultLookupBaseURL = "https://m.facebook.com"

	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"

	// the userID marker sits near the top of the page
	maxLookupBody = 4 << 20
)

var (
	numericRe = regexp.MustCompile(`^\d+$`)
	userIDRe  = regexp.MustCompile(`"userID":"(\d+)"`)
)

// Result is a resolved profile id and how it was obtained.
type Result struct {
	ID       string
	Key      string
	Rule     string
	LookedUp bool
	// OffSite is set when the input URL's registrable domain differs from
	// the lookup host's; such keys are still resolved.
	OffSite bool
}

// Resolver resolves profile URLs. It holds no per-request state and is
// safe for concurrent use.
type Resolver struct {
	client     *http.Client
	lookupBase string
	lookupSite string
	log        *zap.Logger
}

func New(client *http.Client, lookupBase string, log *zap.Logger) *Resolver {
	if client == nil {
		client = &http.Client{}
	}
	if lookupBase == "" {
		lookupBase = DefaultLookupBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{
		client:     client,
		lookupBase: strings.TrimRight(lookupBase, "/"),
		log:        log,
	}
	if u, err := url.Parse(r.lookupBase); err == nil {
		r.lookupSite = site(u.Hostname())
	}
	return r
}

// Resolve extracts a lookup key from rawURL and, unless the key is already
// numeric, asks the lookup host for the matching user id.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (Result, error) {
	u, err := parseURL(rawURL)
	if err != nil {
		return Result{}, err
	}

	key, rule := ExtractKey(u)
	if key == "" {
		return Result{}, fmt.Errorf("%w: rule %q matched %s", ErrExtractionFailed, rule, u.Path)
	}

	res := Result{Key: key, Rule: rule}
	if s := site(u.Hostname()); s != r.lookupSite {
		res.OffSite = true
		r.log.Debug("input host is not the lookup site",
			zap.String("site", s),
			zap.String("lookup_site", r.lookupSite),
			zap.String("key", key),
		)
	}
	if numericRe.MatchString(key) {
		res.ID = key
		return res, nil
	}

	id, err := r.lookup(ctx, key)
	if err != nil {
		return Result{}, err
	}
	res.ID = id
	res.LookedUp = true
	return res, nil
}

func (r *Resolver) lookup(ctx context.Context, key string) (string, error) {
	target := r.lookupBase + "/" + url.PathEscape(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLookupBody))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrLookupUnavailable, err)
	}

	// A non-2xx answer may still carry the id, so the status is only logged.
	m := userIDRe.FindSubmatch(body)
	if m == nil {
		r.log.Debug("lookup found no user id",
			zap.String("key", key),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(body)),
		)
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	r.log.Debug("lookup resolved",
		zap.String("key", key),
		zap.Int("status", resp.StatusCode),
	)
	return string(m[1]), nil
}

// parseURL accepts absolute URLs only; a bare "not a url" parses fine
// with net/url but names no host.
func parseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	return u, nil
}

// site reduces a host to its registrable domain, so www.facebook.com and
// m.facebook.com compare equal.
func site(host string) string {
	host = strings.ToLower(host)
	s, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return s
}

// Package uri implements the URI resolution and canonicalization
// collaborator the resource registry depends on: resolving a
// Location header against its request URL, and reducing a URL to the
// canonical form used as a map key (scheme, authority, path, query;
// fragment stripped).
package uri

import (
	"errors"

	"github.com/valyala/fasthttp"
)

// ErrEmptyURL is returned when an empty string is given where a URL
// is required.
var ErrEmptyURL = errors.New("uri: empty url")

// ResolveRelative resolves location against base, the way a browser
// resolves a Location header against the request URL that produced
// it. location may itself already be absolute.
func ResolveRelative(base, location string) (string, error) {
	if location == "" {
		return "", ErrEmptyURL
	}

	u := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(u)

	if err := u.Parse(nil, []byte(base)); err != nil {
		return "", err
	}
	u.Update(location)

	return string(u.FullURI()), nil
}

// MustResolveRelative is ResolveRelative for call sites that have
// already validated base and location; it panics on error instead of
// threading one through.
func MustResolveRelative(base, location string) string {
	resolved, err := ResolveRelative(base, location)
	if err != nil {
		panic("uri: MustResolveRelative: " + err.Error())
	}
	return resolved
}

// CanonicalizeUrl reduces rawURL to scheme+authority+path+query, with
// the fragment stripped.
func CanonicalizeUrl(rawURL string) (string, error) {
	if rawURL == "" {
		return "", ErrEmptyURL
	}

	u := fasthttp.AcquireURI()
	defer fasthttp.ReleaseURI(u)

	if err := u.Parse(nil, []byte(rawURL)); err != nil {
		return "", err
	}
	u.SetHash("")

	return string(u.FullURI()), nil
}

// StripFragment removes the fragment component of rawURL, keeping the
// query. It is CanonicalizeUrl under another name, so the result also
// carries the same fasthttp URI normalization (for example, an empty
// path comes back as "/").
func StripFragment(rawURL string) (string, error) {
	return CanonicalizeUrl(rawURL)
}

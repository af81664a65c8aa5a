// Package resource implements the redirect-chain resolver: an
// ordered, indexed collection of observed HTTP resources, the
// redirect multimap built from it, and the registry that owns the
// resulting chains and repairs the landing page's chain when
// intermediate hops went unobserved.
package resource

import (
	"github.com/aofei/pageopt/uri"
)

// Resource is the external entity the collection and registry
// consume. Callers adapt their own crawl, HAR, or access-log derived
// records to this interface; Observation is the ready-made concrete
// implementation below.
//
// Implementations are expected to be pointer types so that they are
// comparable and usable as map keys — the registry's resource→chain
// index relies on this.
type Resource interface {
	// RequestURL is the URL the resource was requested at.
	RequestURL() string

	// Host is the authority the request was sent to.
	Host() string

	// StatusCode is the HTTP response status. A valid resource has
	// a positive status code.
	StatusCode() int

	// HasRequestStartTime reports whether RequestStartTimeMs is
	// meaningful for this resource.
	HasRequestStartTime() bool

	// IsRequestStartTimeLessThan orders two resources by request
	// start time. Its result is unspecified when either resource
	// lacks a start time.
	IsRequestStartTimeLessThan(other Resource) bool

	// IsRedirect reports whether this resource is itself an HTTP
	// redirect.
	IsRedirect() bool

	// RedirectTargetURL is the absolute URL this resource redirects
	// to, already resolved against the request URL. Only valid when
	// IsRedirect reports true.
	RedirectTargetURL() string
}

// Observation is a HAR-style request/response record: the concrete
// Resource implementation for callers that have no richer type of
// their own.
type Observation struct {
	URL              string
	HostName         string
	Status           int
	StartTimeMs      int64
	HasStartTimeFlag bool

	// Location is the raw Location response header, empty when the
	// resource is not a redirect. The target URL is resolved against
	// URL once, on construction, via NewObservation.
	Location string

	target string
}

// NewObservation builds an Observation, resolving location (if any)
// against requestURL via the uri package. A resolution failure
// leaves the observation non-redirect rather than propagating an
// error — a resource with a malformed Location header is simply not
// treated as a redirect, the same tolerance the collection applies to
// resources it rejects.
func NewObservation(requestURL, host string, status int, location string, hasStartTime bool, startTimeMs int64) *Observation {
	o := &Observation{
		URL:              requestURL,
		HostName:         host,
		Status:           status,
		StartTimeMs:      startTimeMs,
		HasStartTimeFlag: hasStartTime,
		Location:         location,
	}

	if o.isRedirectStatus() && location != "" {
		if target, err := uri.ResolveRelative(requestURL, location); err == nil {
			o.target = target
		}
	}

	return o
}

func (o *Observation) isRedirectStatus() bool {
	return o.Status >= 300 && o.Status < 400
}

// RequestURL implements Resource.
func (o *Observation) RequestURL() string { return o.URL }

// Host implements Resource.
func (o *Observation) Host() string { return o.HostName }

// StatusCode implements Resource.
func (o *Observation) StatusCode() int { return o.Status }

// HasRequestStartTime implements Resource.
func (o *Observation) HasRequestStartTime() bool { return o.HasStartTimeFlag }

// RequestStartTimeMs is the raw millisecond timestamp, valid when
// HasRequestStartTime reports true.
func (o *Observation) RequestStartTimeMs() int64 { return o.StartTimeMs }

// IsRequestStartTimeLessThan implements Resource.
func (o *Observation) IsRequestStartTimeLessThan(other Resource) bool {
	if oo, ok := other.(*Observation); ok {
		return o.StartTimeMs < oo.StartTimeMs
	}
	return false
}

// IsRedirect implements Resource.
func (o *Observation) IsRedirect() bool {
	return o.isRedirectStatus() && o.target != ""
}

// RedirectTargetURL implements Resource.
func (o *Observation) RedirectTargetURL() string { return o.target }

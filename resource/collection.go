package resource

import (
	"sort"

	"github.com/cespare/xxhash"

	"github.com/aofei/pageopt/filter"
	"github.com/aofei/pageopt/uri"
)

// Entry is one slot in a Collection's owned resource slice. Its
// address is stable for the collection's lifetime.
type Entry struct {
	Resource     Resource
	canonicalURL string
	host         string
}

// Option configures a Collection at construction time.
type Option func(*Collection)

// WithFilter installs the acceptance policy a Collection consults on
// every Add. The default is filter.AcceptAll.
func WithFilter(f filter.Accepter) Option {
	return func(c *Collection) { c.filter = f }
}

// WithMissingTargetHandler installs a callback invoked whenever the
// redirect graph encounters a target URL absent from the collection.
// Without one, missing targets are silently skipped.
func WithMissingTargetHandler(h func(targetURL string)) Option {
	return func(c *Collection) { c.onMissingTarget = h }
}

// WithFrozenMutationHandler installs a callback invoked whenever a
// mutating call (Add, SetPrimaryUrl, a second Freeze) arrives after the
// collection has frozen. The mutation itself is always a no-op; the
// handler exists so the caller can report the programming error loudly
// instead of discovering a silently missing resource later.
func WithFrozenMutationHandler(h func(op string)) Option {
	return func(c *Collection) { c.onFrozenMutation = h }
}

// Collection is the ordered, indexed, freeze-once resource store.
type Collection struct {
	entries []*Entry
	byURL   map[uint64]*Entry
	byHost  map[string][]*Entry

	filter           filter.Accepter
	onMissingTarget  func(targetURL string)
	onFrozenMutation func(op string)

	frozen       bool
	requestOrder []*Entry
	primaryURL   string
	hasPrimary   bool
	registry     *Registry
}

// NewCollection builds an empty, unfrozen Collection.
func NewCollection(opts ...Option) *Collection {
	c := &Collection{
		byURL:  make(map[uint64]*Entry),
		byHost: make(map[string][]*Entry),
		filter: filter.AcceptAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// canonicalKey canonicalizes rawURL, falling back to the raw string
// when canonicalization fails, so a malformed stored URL and an
// equally malformed query can still match.
func (c *Collection) canonicalKey(rawURL string) string {
	if canon, err := uri.CanonicalizeUrl(rawURL); err == nil {
		return canon
	}
	return rawURL
}

// Add admits resource into the collection. It is rejected (and, per
// the ownership-transfer contract, considered destroyed by the
// caller) when the collection is frozen, the URL is empty, the
// status is non-positive, the canonical URL is already present, or
// the configured filter rejects it.
func (c *Collection) Add(r Resource) bool {
	if c.frozen {
		c.reportFrozenMutation("Add")
		return false
	}
	if r == nil {
		return false
	}
	rawURL := r.RequestURL()
	if rawURL == "" || r.StatusCode() <= 0 {
		return false
	}
	if !c.filter.IsAccepted(r) {
		return false
	}

	canon := c.canonicalKey(rawURL)
	key := xxhash.Sum64String(canon)
	if existing, ok := c.byURL[key]; ok && existing.canonicalURL == canon {
		return false
	}

	e := &Entry{Resource: r, canonicalURL: canon, host: r.Host()}
	c.entries = append(c.entries, e)
	c.byURL[key] = e
	c.byHost[e.host] = append(c.byHost[e.host], e)

	return true
}

// SetPrimaryUrl records url as the landing page, canonicalizing it
// first. It fails if the collection is frozen or no resource with
// that canonical URL was added.
func (c *Collection) SetPrimaryUrl(url string) bool {
	if c.frozen {
		c.reportFrozenMutation("SetPrimaryUrl")
		return false
	}
	canon := c.canonicalKey(url)
	key := xxhash.Sum64String(canon)
	e, ok := c.byURL[key]
	if !ok || e.canonicalURL != canon {
		return false
	}
	c.primaryURL = canon
	c.hasPrimary = true
	return true
}

func (c *Collection) reportFrozenMutation(op string) {
	if c.onFrozenMutation != nil {
		c.onFrozenMutation(op)
	}
}

// lookupCanonical looks up a resource by an ALREADY-canonical URL
// string, skipping the raw-fallback logic Add/ByUrl apply — used
// internally by the redirect graph, which only ever deals in
// canonical strings.
func (c *Collection) lookupCanonical(canon string) (Resource, bool) {
	key := xxhash.Sum64String(canon)
	e, ok := c.byURL[key]
	if !ok || e.canonicalURL != canon {
		return nil, false
	}
	return e.Resource, true
}

// Freeze computes the request-order view (iff every resource carries
// a start timestamp) and initializes the owned registry. It is a
// one-way transition: subsequent calls are no-ops reporting false.
func (c *Collection) Freeze() bool {
	if c.frozen {
		c.reportFrozenMutation("Freeze")
		return false
	}
	c.frozen = true

	allHaveStart := len(c.entries) > 0
	for _, e := range c.entries {
		if !e.Resource.HasRequestStartTime() {
			allHaveStart = false
			break
		}
	}
	if allHaveStart {
		ordered := append([]*Entry(nil), c.entries...)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Resource.IsRequestStartTimeLessThan(ordered[j].Resource)
		})
		c.requestOrder = ordered
	}

	c.registry = newRegistry(c)
	return true
}

// Count returns the number of resources held, or 0 before Freeze.
func (c *Collection) Count() int {
	if !c.frozen {
		return 0
	}
	return len(c.entries)
}

// At returns the i'th resource in insertion order.
func (c *Collection) At(i int) (Resource, bool) {
	if !c.frozen || i < 0 || i >= len(c.entries) {
		return nil, false
	}
	return c.entries[i].Resource, true
}

// ByUrl looks up a resource by URL, canonicalizing first (with the
// raw-string fallback for malformed query URLs).
func (c *Collection) ByUrl(url string) (Resource, bool) {
	if !c.frozen {
		return nil, false
	}
	return c.lookupCanonical(c.canonicalKey(url))
}

// RequestOrder returns the stable-sorted-by-start-time view, or nil
// if any resource lacked a start timestamp at Freeze time.
func (c *Collection) RequestOrder() []Resource {
	if !c.frozen || c.requestOrder == nil {
		return nil
	}
	out := make([]Resource, len(c.requestOrder))
	for i, e := range c.requestOrder {
		out[i] = e.Resource
	}
	return out
}

// HostMap returns every resource bucketed by host, in insertion
// order within each bucket.
func (c *Collection) HostMap() map[string][]Resource {
	if !c.frozen {
		return nil
	}
	out := make(map[string][]Resource, len(c.byHost))
	for host, entries := range c.byHost {
		bucket := make([]Resource, len(entries))
		for i, e := range entries {
			bucket[i] = e.Resource
		}
		out[host] = bucket
	}
	return out
}

// PrimaryOrNull returns the resource set by SetPrimaryUrl, if any.
func (c *Collection) PrimaryOrNull() (Resource, bool) {
	if !c.frozen || !c.hasPrimary {
		return nil, false
	}
	return c.lookupCanonical(c.primaryURL)
}

// Registry returns the collection's owned redirect registry,
// initialized by Freeze.
func (c *Collection) Registry() *Registry {
	if !c.frozen {
		return nil
	}
	return c.registry
}

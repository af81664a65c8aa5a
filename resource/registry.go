package resource

// ChainID is a stable handle to a chain held by a Registry. Chain
// storage is an append-only arena addressed by integer index rather
// than by pointer, so that the fix-up pass's mid-vector removal never
// invalidates a reference a caller might be holding — there are no
// pointers to invalidate, only integers that are looked up afresh
// against the current arena.
type ChainID int

// Registry owns the vector of redirect chains derived from a frozen
// Collection, the resource→chain index, and the landing-page fix-up.
type Registry struct {
	collection *Collection
	chains     []Chain
	byResource map[Resource]ChainID
}

// newRegistry drives the graph, indexes the result, and performs
// landing-page fix-up.
func newRegistry(c *Collection) *Registry {
	r := &Registry{
		collection: c,
		byResource: make(map[Resource]ChainID),
	}

	g := buildGraph(c, c.onMissingTarget)
	r.chains = g.emitChains()
	r.reindexAll()
	r.fixupLandingPage()

	return r
}

func (r *Registry) reindexAll() {
	r.byResource = make(map[Resource]ChainID, len(r.byResource))
	for id, chain := range r.chains {
		for _, res := range chain {
			r.byResource[res] = ChainID(id)
		}
	}
}

// fixupLandingPage independently walks the request-ordered view,
// and replaces the registry's computed chain for the landing resource
// when that independent view discovers a longer one.
func (r *Registry) fixupLandingPage() {
	order := r.collection.RequestOrder()
	if len(order) == 0 {
		return
	}

	var fixup Chain
	for _, res := range order {
		fixup = append(fixup, res)
		if !res.IsRedirect() {
			break
		}
	}
	if len(fixup) == 0 {
		return
	}

	var landing Resource
	if primary, ok := r.collection.PrimaryOrNull(); ok {
		landing = primary
	} else {
		landing = fixup[len(fixup)-1]
	}
	if landing == nil {
		return
	}

	primaryChain, hasPrimaryChain := r.ChainFor(landing)
	if hasPrimaryChain && len(fixup) <= len(primaryChain) {
		return
	}

	r.replaceWithFixup(fixup)
}

// replaceWithFixup removes every existing chain whose first element
// is a member of fixup (first-element identity), appends fixup, and
// re-derives the resource→chain index for every surviving chain, so
// the index never points into compacted storage.
func (r *Registry) replaceWithFixup(fixup Chain) {
	members := make(map[Resource]bool, len(fixup))
	for _, res := range fixup {
		members[res] = true
	}

	kept := r.chains[:0:0]
	for _, chain := range r.chains {
		if len(chain) > 0 && members[chain[0]] {
			continue
		}
		kept = append(kept, chain)
	}
	kept = append(kept, fixup)

	r.chains = kept
	r.reindexAll()
}

// Chains returns the full chain vector.
func (r *Registry) Chains() []Chain {
	return r.chains
}

// ChainFor returns the chain res belongs to, if any.
func (r *Registry) ChainFor(res Resource) (Chain, bool) {
	id, ok := r.byResource[res]
	if !ok {
		return nil, false
	}
	return r.chains[id], true
}

// FinalTarget returns the last resource of res's chain, or res itself
// when it has no chain — preserving nil-in, nil-out.
func (r *Registry) FinalTarget(res Resource) Resource {
	if res == nil {
		return nil
	}
	chain, ok := r.ChainFor(res)
	if !ok || len(chain) == 0 {
		return res
	}
	return chain[len(chain)-1]
}

package resource

// Chain is an ordered sequence of resource references. A well-formed
// chain begins with one or more redirect resources and ends with
// either a single non-redirect terminus or a redirect loop.
type Chain []Resource

// sourceTargets is one row of the redirect multimap: a source's
// targets, in the order its observations were added.
type sourceTargets struct {
	source  string
	targets []string
}

// graph is the URL-to-URL multimap built from a frozen collection,
// plus the machinery to emit non-overlapping redirect chains from it.
type graph struct {
	bySource     []*sourceTargets
	sourceIndex  map[string]int
	destinations map[string]bool
	collection   *Collection
	onMissing    func(targetURL string)
}

// buildGraph walks c's resources in insertion order, recording every
// redirect's (source, target) pair.
func buildGraph(c *Collection, onMissing func(targetURL string)) *graph {
	g := &graph{
		sourceIndex:  make(map[string]int),
		destinations: make(map[string]bool),
		collection:   c,
		onMissing:    onMissing,
	}

	for _, e := range c.entries {
		r := e.Resource
		if !r.IsRedirect() {
			continue
		}
		target := r.RedirectTargetURL()
		if target == "" {
			continue
		}
		targetCanon := c.canonicalKey(target)
		src := e.canonicalURL

		idx, ok := g.sourceIndex[src]
		if !ok {
			g.bySource = append(g.bySource, &sourceTargets{source: src})
			idx = len(g.bySource) - 1
			g.sourceIndex[src] = idx
		}
		g.bySource[idx].targets = append(g.bySource[idx].targets, targetCanon)
		g.destinations[targetCanon] = true
	}

	return g
}

// emitChains runs the prioritized depth-first traversal: primary
// roots (sources that are never a destination) before secondary
// roots, each set in multimap insertion order, reversed-push descent
// for deterministic first-target-first visitation, and a
// processed-set to break loops.
func (g *graph) emitChains() []Chain {
	var primary, secondary []string
	for _, st := range g.bySource {
		if g.destinations[st.source] {
			secondary = append(secondary, st.source)
		} else {
			primary = append(primary, st.source)
		}
	}

	roots := make([]string, 0, len(primary)+len(secondary))
	roots = append(roots, primary...)
	roots = append(roots, secondary...)

	processed := make(map[string]bool)
	var chains []Chain
	for _, root := range roots {
		if processed[root] {
			continue
		}
		chains = append(chains, g.traverse(root, processed))
	}
	return chains
}

func (g *graph) traverse(root string, processed map[string]bool) Chain {
	var chain Chain
	stack := []string{root}

	for len(stack) > 0 {
		n := len(stack) - 1
		current := stack[n]
		stack = stack[:n]

		res, ok := g.collection.lookupCanonical(current)
		if !ok {
			if g.onMissing != nil {
				g.onMissing(current)
			}
			continue
		}

		chain = append(chain, res)

		if processed[current] {
			continue
		}
		processed[current] = true

		if idx, ok := g.sourceIndex[current]; ok {
			targets := g.bySource[idx].targets
			for i := len(targets) - 1; i >= 0; i-- {
				stack = append(stack, targets[i])
			}
		}
	}

	return chain
}

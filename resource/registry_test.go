package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// A->B->C (each a 302 to the next, C is 200).
func TestRegistryChainThroughRedirects(t *testing.T) {
	c := NewCollection()
	a := NewObservation("http://example.com/a", "example.com", 302, "http://example.com/b", false, 0)
	b := NewObservation("http://example.com/b", "example.com", 302, "http://example.com/c", false, 0)
	cc := NewObservation("http://example.com/c", "example.com", 200, "", false, 0)

	c.Add(a)
	c.Add(b)
	c.Add(cc)
	c.Freeze()

	reg := c.Registry()
	chains := reg.Chains()
	if assert.Len(t, chains, 1) {
		assert.Equal(t, Chain{a, b, cc}, chains[0])
	}

	assert.Same(t, cc, reg.FinalTarget(a).(*Observation))
}

// Loop A->B->A.
func TestRegistryLoopIsBroken(t *testing.T) {
	c := NewCollection()
	a := NewObservation("http://example.com/a", "example.com", 302, "http://example.com/b", false, 0)
	b := NewObservation("http://example.com/b", "example.com", 302, "http://example.com/a", false, 0)

	c.Add(a)
	c.Add(b)
	c.Freeze()

	reg := c.Registry()
	chains := reg.Chains()
	if assert.Len(t, chains, 1) {
		// Both a and b are destinations, so both are SECONDARY roots;
		// a was inserted into the multimap first and becomes the
		// chosen root, and the chain repeats it once the loop closes.
		assert.Equal(t, a, chains[0][0])
		assert.Equal(t, b, chains[0][1])
		assert.Equal(t, a, chains[0][2])
	}
}

// Landing page fix-up when an intermediate hop is missing from the
// observation set.
func TestRegistryLandingPageFixup(t *testing.T) {
	c := NewCollection()
	// The middle hop B was never observed, so the graph can only ever
	// produce the one-element chain [a]: a's target URL resolves to
	// nothing in the collection. The request-ordered view still shows
	// a followed by the terminus, and the fix-up must prefer that
	// longer reconstruction.
	a := NewObservation("http://example.com/a", "example.com", 302, "http://example.com/b", true, 0)
	cTerm := NewObservation("http://example.com/c", "example.com", 200, "", true, 20)

	c.Add(a)
	c.Add(cTerm)
	c.SetPrimaryUrl("http://example.com/a")
	c.Freeze()

	reg := c.Registry()
	chain, ok := reg.ChainFor(a)
	assert.True(t, ok)
	assert.Equal(t, Chain{a, cTerm}, chain)
	assert.Same(t, cTerm, reg.FinalTarget(a).(*Observation))
}

func TestFinalTargetIsSelfWhenNoChain(t *testing.T) {
	c := NewCollection()
	standalone := NewObservation("http://example.com/solo", "example.com", 200, "", false, 0)
	c.Add(standalone)
	c.Freeze()

	reg := c.Registry()
	_, hasChain := reg.ChainFor(standalone)
	assert.False(t, hasChain)
	assert.Equal(t, Resource(standalone), reg.FinalTarget(standalone))
}

func TestFinalTargetNilInNilOut(t *testing.T) {
	c := NewCollection()
	c.Freeze()
	reg := c.Registry()
	assert.Nil(t, reg.FinalTarget(nil))
}

// Registry coverage property: every resource that is a redirect or a
// redirect target appears in exactly one chain.
func TestRegistryCoverageProperty(t *testing.T) {
	c := NewCollection()
	a := NewObservation("http://example.com/a", "example.com", 302, "http://example.com/b", false, 0)
	b := NewObservation("http://example.com/b", "example.com", 200, "", false, 0)
	unrelated := NewObservation("http://example.com/z", "example.com", 200, "", false, 0)

	c.Add(a)
	c.Add(b)
	c.Add(unrelated)
	c.Freeze()

	reg := c.Registry()
	_, aHasChain := reg.ChainFor(a)
	_, bHasChain := reg.ChainFor(b)
	assert.True(t, aHasChain)
	assert.True(t, bHasChain)

	count := 0
	for _, chain := range reg.Chains() {
		for _, r := range chain {
			if r == Resource(a) || r == Resource(b) {
				count++
			}
		}
	}
	assert.Equal(t, 2, count)
}

package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotRoundTrip(t *testing.T) {
	c := NewCollection()
	c.Add(NewObservation("http://example.com/a", "example.com", 302, "http://example.com/b", true, 10))
	c.Add(NewObservation("http://example.com/b", "example.com", 200, "", true, 20))

	data, ok, err := Snapshot(c)
	assert.NoError(t, err)
	assert.True(t, ok)

	restored, err := FromSnapshot(data)
	assert.NoError(t, err)
	if assert.Len(t, restored, 2) {
		assert.Equal(t, "http://example.com/a", restored[0].URL)
		assert.True(t, restored[0].IsRedirect())
		assert.Equal(t, "http://example.com/b", restored[0].RedirectTargetURL())
		assert.False(t, restored[1].IsRedirect())
	}
}

type bareResource struct{ url string }

func (r *bareResource) RequestURL() string { return r.url }

func (r *bareResource) Host() string { return "example.com" }

func (r *bareResource) StatusCode() int { return 200 }

func (r *bareResource) HasRequestStartTime() bool { return false }

func (r *bareResource) IsRequestStartTimeLessThan(o Resource) bool { return false }

func (r *bareResource) IsRedirect() bool { return false }

func (r *bareResource) RedirectTargetURL() string { return "" }

func TestSnapshotSkipsForeignResourceTypes(t *testing.T) {
	c := NewCollection()
	c.Add(NewObservation("http://example.com/a", "example.com", 200, "", false, 0))
	c.Add(&bareResource{url: "http://example.com/b"})

	data, ok, err := Snapshot(c)
	assert.NoError(t, err)
	assert.False(t, ok)

	restored, err := FromSnapshot(data)
	assert.NoError(t, err)
	assert.Len(t, restored, 1)
}

func TestFromSnapshotRejectsGarbage(t *testing.T) {
	_, err := FromSnapshot([]byte{0xc1, 0xff, 0x00})
	assert.Error(t, err)
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptAll(t *testing.T) {
	assert.True(t, AcceptAll.IsAccepted("anything"))
	assert.True(t, AcceptAll.IsAccepted(nil))
}

func TestAccepterFunc(t *testing.T) {
	rejectAll := AccepterFunc(func(interface{}) bool { return false })
	assert.False(t, rejectAll.IsAccepted("x"))
}

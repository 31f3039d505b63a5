package civdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCivName(t *testing.T) {
	assert.Equal(t, "Britons", CivName(1))
	assert.Equal(t, "Georgians", CivName(45))
	assert.Equal(t, "Unknown (999)", CivName(999))
}

func TestMapName(t *testing.T) {
	assert.Equal(t, "Arabia", MapName(9, ""))
	assert.Equal(t, "Arena", MapName(29, ""))
	assert.Equal(t, "Custom Arabia", MapName(9, "Custom Arabia"), "reported name wins")
	assert.Equal(t, "Map 9999", MapName(9999, ""))
}

package idgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOrderIDUnique(t *testing.T) {
	g, err := NewSnowflake(1)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := g.NextOrderID()
		require.True(t, strings.HasPrefix(id, "ORD-"), id)
		assert.Equal(t, strings.ToUpper(id), id)
		require.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestNewSnowflakeRejectsBadNode(t *testing.T) {
	_, err := NewSnowflake(-1)
	assert.Error(t, err)
	_, err = NewSnowflake(1 << 20)
	assert.Error(t, err)
}

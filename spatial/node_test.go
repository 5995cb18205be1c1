package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeAddAndSnapshot(t *testing.T) {
	n := newNode()
	require.True(t, n.add(1))
	require.True(t, n.add(2))
	assert.ElementsMatch(t, []EntityId{1, 2}, n.snapshot())
	assert.Equal(t, 2, n.size())
}

func TestNodeRemoveLastMemberRetires(t *testing.T) {
	n := newNode()
	require.True(t, n.add(1))
	assert.False(t, n.remove(2), "removing an absent id must not retire a non-empty node")
	assert.True(t, n.remove(1))
	assert.True(t, n.isRetired())
}

func TestRetiredNodeRejectsAddsAndReadsEmpty(t *testing.T) {
	n := newNode()
	require.True(t, n.add(1))
	require.True(t, n.remove(1))

	assert.False(t, n.add(2), "a retired node must reject further adds")
	assert.Nil(t, n.snapshot())
	assert.Equal(t, 0, n.size())
}

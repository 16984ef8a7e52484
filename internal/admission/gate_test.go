package admission

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGateAdmitsUpToCeiling(t *testing.T) {
	g := New(2, nil, nil)

	release1, err := g.Enter(EndpointBulkDocs)
	require.NoError(t, err)
	release2, err := g.Enter(EndpointRevsDiff)
	require.NoError(t, err)

	_, err = g.Enter(EndpointBulkDocs)
	require.Error(t, err, "expected third Enter to be rejected")

	release1()
	_, err = g.Enter(EndpointBulkDocs)
	require.NoError(t, err, "Enter after release should succeed")
	release2()
}

func TestGateActiveCounters(t *testing.T) {
	g := New(4, nil, nil)

	releaseBulk, err := g.Enter(EndpointBulkDocs)
	require.NoError(t, err)
	releaseRevsDiff, err := g.Enter(EndpointRevsDiff)
	require.NoError(t, err)

	bulk, revsDiff := g.Active()
	require.Equal(t, 1, bulk)
	require.Equal(t, 1, revsDiff)

	releaseBulk()
	releaseRevsDiff()

	bulk, revsDiff = g.Active()
	require.Equal(t, 0, bulk)
	require.Equal(t, 0, revsDiff)
}

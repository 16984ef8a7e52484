package replication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/capi-es-bridge/internal/fakeindex"
	"github.com/couchbase/capi-es-bridge/model"
)

func TestRevsDiffWithoutConflictResolution(t *testing.T) {
	idx := fakeindex.New("db1")
	engine := NewRevsDiffEngine(idx, constantType("couchbaseDocument"), false)

	out, err := engine.Diff(context.Background(), "db1", map[string]string{"x": "1-a", "y": "1-b"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "1-a", out["x"].Missing)
	require.Equal(t, "1-b", out["y"].Missing)
}

func TestRevsDiffResolvesMatchingConflict(t *testing.T) {
	idx := fakeindex.New("db1")
	idx.Seed("db1", "couchbaseDocument", "x", model.IndexedDocument{
		Meta: model.Meta{ID: "x", Rev: "2-abc"},
	})
	engine := NewRevsDiffEngine(idx, constantType("couchbaseDocument"), true)

	out, err := engine.Diff(context.Background(), "db1", map[string]string{"x": "2-abc", "y": "1-z"})
	require.NoError(t, err)

	_, present := out["x"]
	require.False(t, present, "expected id x to be resolved away")
	require.Equal(t, "1-z", out["y"].Missing)
}

func TestRevsDiffKeepsMismatchedRev(t *testing.T) {
	idx := fakeindex.New("db1")
	idx.Seed("db1", "couchbaseDocument", "x", model.IndexedDocument{
		Meta: model.Meta{ID: "x", Rev: "1-old"},
	})
	engine := NewRevsDiffEngine(idx, constantType("couchbaseDocument"), true)

	out, err := engine.Diff(context.Background(), "db1", map[string]string{"x": "2-new"})
	require.NoError(t, err)
	require.Equal(t, "2-new", out["x"].Missing, "expected x to stay missing with mismatched rev")
}

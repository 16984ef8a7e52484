package bridge

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/couchbase/capi-es-bridge/internal/admission"
	"github.com/couchbase/capi-es-bridge/internal/checkpoint"
	bridgeerrors "github.com/couchbase/capi-es-bridge/internal/errors"
	"github.com/couchbase/capi-es-bridge/internal/fakeindex"
	"github.com/couchbase/capi-es-bridge/internal/idgen"
	"github.com/couchbase/capi-es-bridge/internal/replication"
	"github.com/couchbase/capi-es-bridge/internal/typeselector"
	"github.com/couchbase/capi-es-bridge/internal/uuidstore"
	"github.com/couchbase/capi-es-bridge/model"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type noopSleeper struct{}

func (noopSleeper) Sleep(context.Context, time.Duration) error { return nil }

func newTestBridge(idx *fakeindex.Client) *Bridge {
	gen := idgen.New()
	uuids := uuidstore.New(idx, uuidstore.NewCache(), gen, "couchbaseCheckpoint")
	cp := checkpoint.New(idx, gen, "couchbaseCheckpoint")
	sel := typeselector.Constant("couchbaseDocument")
	revsDiff := replication.NewRevsDiffEngine(idx, sel, true)
	bulkDocs := replication.NewBulkDocsEngine(idx, fixedClock{now: time.Unix(0, 0)}, noopSleeper{}, sel, replication.Config{Retries: 1, RetryWait: time.Millisecond})
	gate := admission.New(4, nil, nil)

	return New(gate, uuids, cp, revsDiff, bulkDocs, idx)
}

func TestWelcome(t *testing.T) {
	b := newTestBridge(fakeindex.New())
	w := b.Welcome()
	require.NotEmpty(t, w.Vendor)
}

func TestDatabaseExistsMissing(t *testing.T) {
	b := newTestBridge(fakeindex.New())
	reason, err := b.DatabaseExists(context.Background(), "nobucket")
	require.NoError(t, err)
	require.Equal(t, "missing", reason)
}

func TestDatabaseExistsUUIDMatch(t *testing.T) {
	idx := fakeindex.New("bucket1")
	b := newTestBridge(idx)

	uuid, err := b.uuids.GetBucketUUID(context.Background(), "bucket1")
	require.NoError(t, err)

	reason, err := b.DatabaseExists(context.Background(), "bucket1;"+uuid)
	require.NoError(t, err)
	require.Empty(t, reason, "want empty reason (match)")

	reason, err = b.DatabaseExists(context.Background(), "bucket1;wrong-uuid")
	require.NoError(t, err)
	require.Equal(t, "uuids_dont_match", reason)
}

func TestGetDatabaseDetails(t *testing.T) {
	idx := fakeindex.New("bucket1")
	b := newTestBridge(idx)

	details, reason, err := b.GetDatabaseDetails(context.Background(), "bucket1")
	require.NoError(t, err)
	require.Empty(t, reason)
	require.NotNil(t, details)
	require.Equal(t, "bucket1", details.DBName)
}

func TestCreateAndDeleteDatabaseAreUnsupported(t *testing.T) {
	b := newTestBridge(fakeindex.New())

	err := b.CreateDatabase(context.Background(), "bucket1")
	require.True(t, stderrors.Is(err, bridgeerrors.ErrUnsupportedOperation))

	err = b.DeleteDatabase(context.Background(), "bucket1")
	require.True(t, stderrors.Is(err, bridgeerrors.ErrUnsupportedOperation))
}

func TestEnsureFullCommitAlwaysSucceeds(t *testing.T) {
	b := newTestBridge(fakeindex.New())
	require.NoError(t, b.EnsureFullCommit(context.Background(), "bucket1"))
}

func TestRevsDiffAndBulkDocsRoundTrip(t *testing.T) {
	idx := fakeindex.New("bucket1")
	b := newTestBridge(idx)

	acks, err := b.BulkDocs(context.Background(), "bucket1", []model.Mutation{
		{Meta: &model.Meta{ID: "x", Rev: "1-a"}, JSON: model.Document{"n": 1.0}},
	})
	require.NoError(t, err)
	require.Len(t, acks, 1)
	require.Equal(t, "x", acks[0].ID)

	diff, err := b.RevsDiff(context.Background(), "bucket1", map[string]string{"x": "1-a", "y": "1-b"})
	require.NoError(t, err)

	_, present := diff["x"]
	require.False(t, present, "expected x to be resolved away after bulk write")
	require.Equal(t, "1-b", diff["y"].Missing)
}

func TestAdmissionRejectionSurfacesFromBridge(t *testing.T) {
	idx := fakeindex.New("bucket1")
	b := newTestBridge(idx)
	b.gate = admission.New(0, nil, nil)

	_, err := b.RevsDiff(context.Background(), "bucket1", map[string]string{"x": "1-a"})
	require.True(t, stderrors.Is(err, bridgeerrors.ErrAdmissionRejected))
}

func TestLocalDocGetPut(t *testing.T) {
	idx := fakeindex.New("bucket1")
	b := newTestBridge(idx)

	rev, err := b.PutLocalDoc(context.Background(), "bucket1", "chk-1", model.Document{"seq": 3.0})
	require.NoError(t, err)

	doc, found, err := b.GetLocalDoc(context.Background(), "bucket1", "chk-1")
	require.NoError(t, err)
	require.True(t, found, "expected the checkpoint doc to be found")
	require.Equal(t, rev, doc["_rev"])
}

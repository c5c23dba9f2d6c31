package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raiakash203/Real-Time-Twitter-Analysis/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeBuilder struct {
	mu       sync.Mutex
	snapshot *models.Snapshot
	err      error
	calls    int
	block    chan struct{}
}

func (f *fakeBuilder) BuildSnapshot(_ context.Context) (*models.Snapshot, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.block != nil {
		<-f.block
	}
	return f.snapshot, f.err
}

func (f *fakeBuilder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		GeneratedAt: time.Date(2020, 4, 1, 12, 0, 0, 0, time.UTC),
		Rolling:     models.RollingCounts{Positive: 3, Neutral: 2, Negative: 1},
		Change:      models.PercentChange{Percent: 25, HasPrior: true},
		Hashtags:    []models.HashtagCount{{Tag: "covid19", Count: 5}},
		TotalPosts:  100,
	}
}

func serve(t *testing.T, sched *Scheduler, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(sched)
	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, path, nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)
	return w
}

func TestSnapshotNotReady(t *testing.T) {
	sched := NewScheduler(&fakeBuilder{}, time.Minute, nil)

	w := serve(t, sched, "/api/snapshot")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "snapshot not ready", resp.Error)
}

func TestSnapshotServed(t *testing.T) {
	sched := NewScheduler(&fakeBuilder{snapshot: testSnapshot()}, time.Minute, nil)
	sched.Refresh(context.Background())

	w := serve(t, sched, "/api/snapshot")
	assert.Equal(t, http.StatusOK, w.Code)

	var snap models.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, int64(100), snap.TotalPosts)
	assert.Equal(t, 3, snap.Rolling.Positive)
}

func TestChangeEndpointWithPrior(t *testing.T) {
	sched := NewScheduler(&fakeBuilder{snapshot: testSnapshot()}, time.Minute, nil)
	sched.Refresh(context.Background())

	w := serve(t, sched, "/api/change")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["available"])
	assert.Equal(t, 25.0, resp["percent"])
}

func TestChangeEndpointNoPrior(t *testing.T) {
	snap := testSnapshot()
	snap.Change = models.PercentChange{}
	sched := NewScheduler(&fakeBuilder{snapshot: snap}, time.Minute, nil)
	sched.Refresh(context.Background())

	w := serve(t, sched, "/api/change")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["available"])
	assert.Equal(t, "no prior data", resp["reason"])
}

func TestHashtagsEndpoint(t *testing.T) {
	sched := NewScheduler(&fakeBuilder{snapshot: testSnapshot()}, time.Minute, nil)
	sched.Refresh(context.Background())

	w := serve(t, sched, "/api/hashtags")
	assert.Equal(t, http.StatusOK, w.Code)

	var tags []models.HashtagCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "covid19", tags[0].Tag)
}

func TestHealthz(t *testing.T) {
	sched := NewScheduler(&fakeBuilder{}, time.Minute, nil)
	w := serve(t, sched, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRefreshKeepsLastSnapshotOnError(t *testing.T) {
	builder := &fakeBuilder{snapshot: testSnapshot()}
	sched := NewScheduler(builder, time.Minute, nil)
	sched.Refresh(context.Background())
	require.NotNil(t, sched.Latest())

	builder.mu.Lock()
	builder.snapshot = nil
	builder.err = errors.New("db gone")
	builder.mu.Unlock()

	sched.Refresh(context.Background())
	assert.NotNil(t, sched.Latest(), "stale snapshot is better than none")
}

func TestOverlappingRefreshSkipped(t *testing.T) {
	builder := &fakeBuilder{snapshot: testSnapshot(), block: make(chan struct{})}
	sched := NewScheduler(builder, time.Minute, nil)

	done := make(chan struct{})
	go func() {
		sched.Refresh(context.Background())
		close(done)
	}()

	// wait until the first pass is inside BuildSnapshot
	require.Eventually(t, func() bool { return builder.callCount() == 1 },
		time.Second, time.Millisecond)

	// a second tick while the first is in flight must not start a pass
	sched.Refresh(context.Background())
	assert.Equal(t, 1, builder.callCount())

	close(builder.block)
	<-done
	assert.Equal(t, 1, builder.callCount())
}

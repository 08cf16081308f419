package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/working-groups/internal/config"
	"github.com/jakechorley/working-groups/pkg/core/model"
	"github.com/jakechorley/working-groups/pkg/db"
	"github.com/jakechorley/working-groups/pkg/metrics"
)

// fakeSheet implements services.GroupSheet
type fakeSheet struct {
	members []model.Member
	listErr error
	writes  int
}

func (f *fakeSheet) ListMembers(cfg *config.Config) ([]model.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.members, nil
}

func (f *fakeSheet) WriteGroups(cfg *config.Config, groups []*model.WorkingGroup) error {
	f.writes++
	return nil
}

// fakeHistory implements services.HistoryWriter
type fakeHistory struct {
	runs []db.AllocationRun
}

func (f *fakeHistory) InsertAllocationRun(ctx context.Context, run *db.AllocationRun) error {
	f.runs = append(f.runs, *run)
	return nil
}

func (f *fakeHistory) InsertGroupAssignments(ctx context.Context, assignments []db.GroupAssignment) error {
	return nil
}

func testDeps(sheet *fakeSheet) Deps {
	return Deps{
		Sheet:  sheet,
		Logger: zap.NewNop(),
		Config: &config.Config{
			SpreadsheetID: "sheet123",
			GroupCount:    2,
			Weeks:         []int{1, 2, 3, 4},
		},
	}
}

func sampleMembers() []model.Member {
	return []model.Member{
		{ID: "1", Name: "Ida", Household: "Holm", Score: 1, Weight: 1},
		{ID: "2", Name: "Karl", Household: "Holm", Score: 1, Weight: 1},
		{ID: "3", Name: "Lone", Household: "Berg", Score: 2, Weight: 0.5},
		{ID: "4", Name: "Mads", Household: "Dahl", Score: 2, Weight: 0},
	}
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoot(t *testing.T) {
	rec := get(t, NewRouter(testDeps(&fakeSheet{})), "/")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"])
}

func TestHealth(t *testing.T) {
	rec := get(t, NewRouter(testDeps(&fakeSheet{})), "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	_, err := time.Parse(time.RFC3339, body["timestamp"])
	assert.NoError(t, err)
}

func TestGroups_SavesByDefault(t *testing.T) {
	sheet := &fakeSheet{members: sampleMembers()}
	history := &fakeHistory{}
	deps := testDeps(sheet)
	deps.History = history

	rec := get(t, NewRouter(deps), "/api/groups?seed=vinter")
	require.Equal(t, http.StatusOK, rec.Code)

	var body GroupsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "vinter", body.Seed)
	assert.True(t, body.Saved)
	assert.Len(t, body.WorkingGroups, 2)
	assert.Len(t, body.Members, 3)
	assert.Empty(t, body.Unplaced)
	assert.Equal(t, 1, sheet.writes)
	require.Len(t, history.runs, 1)
	assert.Equal(t, body.RunID, history.runs[0].ID)
}

func TestGroups_DanishAliasAndSaveFalse(t *testing.T) {
	sheet := &fakeSheet{members: sampleMembers()}

	rec := get(t, NewRouter(testDeps(sheet)), "/api/grupper?save=false")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, sheet.writes)

	var body GroupsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Saved)
	assert.NotEmpty(t, body.Seed)
	assert.NotNil(t, body.DuplicateNames)
}

func TestGroups_InvalidSave(t *testing.T) {
	rec := get(t, NewRouter(testDeps(&fakeSheet{members: sampleMembers()})), "/api/groups?save=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGroups_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sheet  *fakeSheet
		errMsg string
	}{
		{name: "sheet unavailable", sheet: &fakeSheet{listErr: errors.New("quota exceeded")}, errMsg: "quota exceeded"},
		{name: "no members", sheet: &fakeSheet{}, errMsg: "no eligible members"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, NewRouter(testDeps(tt.sheet)), "/api/groups")
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Contains(t, body["error"], tt.errMsg)
		})
	}
}

func TestMembers(t *testing.T) {
	rec := get(t, NewRouter(testDeps(&fakeSheet{members: sampleMembers()})), "/api/members")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]model.Member
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body["members"], 3)
	require.Len(t, body["excluded"], 1)
	assert.Equal(t, "4", body["excluded"][0].ID)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	deps := testDeps(&fakeSheet{members: sampleMembers()})
	deps.Collector = metrics.NewPrometheus(reg, "test")
	deps.Gatherer = reg
	router := NewRouter(deps)

	require.Equal(t, http.StatusOK, get(t, router, "/api/groups?save=false").Code)

	rec := get(t, router, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_allocations_total")
	assert.Contains(t, rec.Body.String(), "test_sheet_operations_total")
}

func TestMetricsEndpoint_NotMountedWithoutGatherer(t *testing.T) {
	rec := get(t, NewRouter(testDeps(&fakeSheet{})), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() {
		done <- Run(ctx, "127.0.0.1:0", NewRouter(testDeps(&fakeSheet{})), zap.NewNop())
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("server did not shut down")
	}
}

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	achievementdto "studysprint/internal/modules/achievement/dto"
	statsdto "studysprint/internal/modules/stats/dto"
	storeout "studysprint/internal/modules/store/adapter/out"
	"studysprint/internal/modules/store/domain"
	storeservice "studysprint/internal/modules/store/service"
	storeusecase "studysprint/internal/modules/store/usecase"
	apperrors "studysprint/internal/platform/errors"
	"studysprint/internal/platform/id"
	"studysprint/internal/platform/logging"
)

type fakeAchievements struct {
	refreshErr error
	refreshed  int
}

func (f *fakeAchievements) List(context.Context) (achievementdto.ListOutput, error) {
	return achievementdto.ListOutput{Total: 15}, nil
}

func (f *fakeAchievements) Refresh(context.Context) (achievementdto.ListOutput, error) {
	f.refreshed++
	if f.refreshErr != nil {
		return achievementdto.ListOutput{}, f.refreshErr
	}
	return achievementdto.ListOutput{Total: 15, Unlocked: 1}, nil
}

type fakeStats struct{ lastTag string }

func (f *fakeStats) Summary(_ context.Context, input statsdto.SummaryInput) (statsdto.SummaryOutput, error) {
	f.lastTag = input.TagID
	return statsdto.SummaryOutput{TagID: input.TagID, TotalSessions: 2}, nil
}

type panicStats struct{}

func (panicStats) Summary(context.Context, statsdto.SummaryInput) (statsdto.SummaryOutput, error) {
	panic("boom")
}

func newTestStore(t *testing.T) *storeservice.StoreService {
	t.Helper()
	svc := storeservice.NewStoreService(context.Background(), storeout.NewJSONSnapshotRepository(filepath.Join(t.TempDir(), "state.json")), nil, id.UUID{}, logging.Discard())
	t.Cleanup(svc.Close)
	return svc
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestReadRoutes(t *testing.T) {
	t.Parallel()
	svc := newTestStore(t)
	store := storeusecase.NewInteractor(svc, "")
	tagID := svc.Snapshot().Tags[0].ID
	at := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		if _, err := svc.AppendSession(domain.StudySession{TagID: tagID, StartedAt: at.Add(time.Duration(i) * time.Hour), FocusDurationSec: 1500}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	stats := &fakeStats{}
	router := NewRouter(store, &fakeAchievements{}, stats, logging.Discard())

	rec := do(t, router, http.MethodGet, "/health")
	if rec.Code != http.StatusOK || rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("unexpected health response %d %v", rec.Code, rec.Header())
	}
	var health healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil || health.Sessions != 2 || health.Tags != 1 {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/sessions?tag="+tagID)
	var sessions []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &sessions); err != nil || len(sessions) != 2 || sessions[0]["tag_name"] != "Default" {
		t.Fatalf("unexpected sessions body %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/snapshot")
	var snap domain.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil || len(snap.Sessions) != 2 {
		t.Fatalf("unexpected snapshot body %s", rec.Body.String())
	}

	for _, path := range []string{"/tags", "/settings", "/profile", "/achievements"} {
		if rec := do(t, router, http.MethodGet, path); rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, rec.Code)
		}
	}

	rec = do(t, router, http.MethodGet, "/stats?tag="+tagID)
	if rec.Code != http.StatusOK || stats.lastTag != tagID {
		t.Fatalf("unexpected stats response %d tag=%q", rec.Code, stats.lastTag)
	}
}

func TestErrorMapping(t *testing.T) {
	t.Parallel()
	store := storeusecase.NewInteractor(newTestStore(t), "")
	achievements := &fakeAchievements{}
	router := NewRouter(store, achievements, &fakeStats{}, logging.Discard())

	rec := do(t, router, http.MethodGet, "/stats?tag=missing")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Code != "not_found" || body.RequestID == "" {
		t.Fatalf("unexpected error body %s", rec.Body.String())
	}

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("bad: %w", apperrors.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("busy: %w", apperrors.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("disk"), http.StatusInternalServerError},
		{nil, http.StatusOK},
	}
	for _, tc := range cases {
		achievements.refreshErr = tc.err
		if rec := do(t, router, http.MethodPost, "/achievements/refresh"); rec.Code != tc.want {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
	if rec := do(t, router, http.MethodGet, "/achievements/refresh"); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("refresh must be POST only, got %d", rec.Code)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	t.Parallel()
	store := storeusecase.NewInteractor(newTestStore(t), "")
	router := NewRouter(store, &fakeAchievements{}, panicStats{}, logging.Discard())
	rec := do(t, router, http.MethodGet, "/stats")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"litgraph/internal/domain"
	"litgraph/internal/jobs"
)

// fakeJobRepo stores rows in memory. onCreate, when set, runs after each
// insert and can mutate the row, standing in for an instant worker.
type fakeJobRepo struct {
	mu       sync.Mutex
	jobs     map[string]*domain.ExtractionJob
	onCreate func(job *domain.ExtractionJob)
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]*domain.ExtractionJob)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.ExtractionJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *job
	if r.onCreate != nil {
		r.onCreate(&cp)
	}
	r.jobs[cp.ID] = &cp
	return nil
}

func (r *fakeJobRepo) UpdateStatus(_ context.Context, jobID string, status domain.JobStatus, errMsg *string, result []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return domain.ErrNotFound
	}
	job.Status = status
	if errMsg != nil {
		job.ErrorMessage = *errMsg
	}
	if result != nil {
		job.Result = string(result)
	}
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, jobID string) (*domain.ExtractionJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (r *fakeJobRepo) ClaimNext(context.Context) (*domain.ExtractionJob, error) {
	return nil, domain.ErrNotFound
}

type fakeAnalytics struct {
	mu        sync.Mutex
	counters  map[string]int
	countries map[string]int
	summary   *domain.AnalyticsDaily
	err       error
}

func newFakeAnalytics() *fakeAnalytics {
	return &fakeAnalytics{counters: make(map[string]int), countries: make(map[string]int)}
}

func (f *fakeAnalytics) IncrementCounters(_ context.Context, _ string, counters map[string]int, country string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for key, n := range counters {
		f.counters[key] += n
	}
	if country != "" {
		f.countries[country]++
	}
	return nil
}

func (f *fakeAnalytics) GetSummary(context.Context) (*domain.AnalyticsDaily, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.summary == nil {
		return nil, domain.ErrNotFound
	}
	return f.summary, nil
}

func newTestApp(repo domain.JobRepository, analytics domain.AnalyticsRepository, opts jobs.Options) *App {
	opts.Logger = zerolog.New(io.Discard)
	if opts.PollInterval == 0 {
		opts.PollInterval = time.Millisecond
	}
	return NewApp(jobs.NewOrchestrator(repo, nil, opts), analytics, zerolog.New(io.Discard))
}

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.NewDecoder(body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestStartExtractCreatesJob(t *testing.T) {
	repo := newFakeJobRepo()
	analytics := newFakeAnalytics()
	app := newTestApp(repo, analytics, jobs.Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract/start", strings.NewReader(`{"text":"숙희와 오빠 이야기"}`))
	rec := httptest.NewRecorder()
	app.StartExtract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec.Body)
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("body = %v, want ok:true", body)
	}
	jobID, _ := body["jobId"].(string)
	if jobID == "" {
		t.Fatal("expected a jobId in the response")
	}
	if job, err := repo.GetByID(context.Background(), jobID); err != nil || job.Status != domain.JobStatusProcessing {
		t.Fatalf("row = %+v err = %v, want stored PROCESSING row", job, err)
	}
	if analytics.counters[domain.CounterSubmissions] != 1 {
		t.Fatalf("submissions = %d, want 1", analytics.counters[domain.CounterSubmissions])
	}
}

func TestStartExtractEmptyText(t *testing.T) {
	app := newTestApp(newFakeJobRepo(), nil, jobs.Options{})

	for _, payload := range []string{`{"text":""}`, `{"text":"   "}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/v1/extract/start", strings.NewReader(payload))
		rec := httptest.NewRecorder()
		app.StartExtract(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: status = %d, want 400", payload, rec.Code)
		}
		body := decodeBody(t, rec.Body)
		if body["message"] != "text is required" {
			t.Fatalf("payload %s: message = %v", payload, body["message"])
		}
	}
}

func TestStartExtractInvalidBody(t *testing.T) {
	app := newTestApp(newFakeJobRepo(), nil, jobs.Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract/start", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	app.StartExtract(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExtractStatusLifecycle(t *testing.T) {
	repo := newFakeJobRepo()
	app := newTestApp(repo, nil, jobs.Options{})

	jobID, err := app.Orchestrator.CreateJob(context.Background(), "text")
	if err != nil {
		t.Fatalf("CreateJob error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/extract/status?id="+jobID, nil)
	rec := httptest.NewRecorder()
	app.ExtractStatus(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec.Body)
	if body["status"] != string(domain.JobStatusProcessing) {
		t.Fatalf("status field = %v, want PROCESSING", body["status"])
	}

	payload := []byte(`{"ok":true,"graph":{"nodes":[],"edges":[],"spans":[]}}`)
	if err := repo.UpdateStatus(context.Background(), jobID, domain.JobStatusCompleted, nil, payload); err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}

	rec = httptest.NewRecorder()
	app.ExtractStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/extract/status?id="+jobID, nil))
	body = decodeBody(t, rec.Body)
	if body["status"] != string(domain.JobStatusCompleted) {
		t.Fatalf("status field = %v, want COMPLETED", body["status"])
	}
	if result, _ := body["result"].(string); result != string(payload) {
		t.Fatalf("result = %q, want stored payload verbatim", result)
	}
}

func TestExtractStatusMissingAndUnknownID(t *testing.T) {
	app := newTestApp(newFakeJobRepo(), nil, jobs.Options{})

	rec := httptest.NewRecorder()
	app.ExtractStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/extract/status", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id: status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	app.ExtractStatus(rec, httptest.NewRequest(http.MethodGet, "/v1/extract/status?id=nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestExtractSyncReturnsEnvelope(t *testing.T) {
	repo := newFakeJobRepo()
	repo.onCreate = func(job *domain.ExtractionJob) {
		job.Status = domain.JobStatusCompleted
		job.Result = `{"ok":true,"graph":{"nodes":[{"id":"a"}],"edges":[],"spans":[]}}`
	}
	app := newTestApp(repo, nil, jobs.Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(`{"text":"본문"}`))
	rec := httptest.NewRecorder()
	app.Extract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec.Body)
	if ok, _ := body["ok"].(bool); !ok {
		t.Fatalf("body = %v, want the decoded envelope", body)
	}
	graph, _ := body["graph"].(map[string]any)
	if graph == nil {
		t.Fatalf("body = %v, want graph object", body)
	}
}

func TestExtractSyncFailedJob(t *testing.T) {
	repo := newFakeJobRepo()
	repo.onCreate = func(job *domain.ExtractionJob) {
		job.Status = domain.JobStatusFailed
		job.ErrorMessage = "model invocation failed"
	}
	app := newTestApp(repo, nil, jobs.Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(`{"text":"본문"}`))
	rec := httptest.NewRecorder()
	app.Extract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec.Body)
	if ok, _ := body["ok"].(bool); ok {
		t.Fatalf("body = %v, want ok:false", body)
	}
	if body["message"] != "model invocation failed" {
		t.Fatalf("message = %v", body["message"])
	}
}

func TestExtractSyncTimesOut(t *testing.T) {
	app := newTestApp(newFakeJobRepo(), nil, jobs.Options{MaxPollAttempts: 2})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract", strings.NewReader(`{"text":"본문"}`))
	rec := httptest.NewRecorder()
	app.Extract(rec, req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(newFakeJobRepo(), nil, jobs.Options{})

	rec := httptest.NewRecorder()
	app.Health(rec, httptest.NewRequest(http.MethodGet, "/v1/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec.Body); body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestStatsSummary(t *testing.T) {
	analytics := newFakeAnalytics()
	analytics.summary = &domain.AnalyticsDaily{
		Day:         "2026-08-31",
		Submissions: 5,
		Completed:   3,
		Failed:      1,
		ByCountry:   map[string]int{"KR": 4, "US": 1},
	}
	app := newTestApp(newFakeJobRepo(), analytics, jobs.Options{})

	rec := httptest.NewRecorder()
	app.StatsSummary(rec, httptest.NewRequest(http.MethodGet, "/v1/stats/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec.Body)
	if body["day"] != "2026-08-31" || body["submissions"] != float64(5) {
		t.Fatalf("body = %v", body)
	}
}

func TestStatsSummaryNoDataYet(t *testing.T) {
	app := newTestApp(newFakeJobRepo(), newFakeAnalytics(), jobs.Options{})

	rec := httptest.NewRecorder()
	app.StatsSummary(rec, httptest.NewRequest(http.MethodGet, "/v1/stats/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec.Body)
	if body["submissions"] != float64(0) {
		t.Fatalf("body = %v, want zeroed counters", body)
	}
}

func TestStatsSummaryStoreError(t *testing.T) {
	analytics := newFakeAnalytics()
	analytics.err = errors.New("connection refused")
	app := newTestApp(newFakeJobRepo(), analytics, jobs.Options{})

	rec := httptest.NewRecorder()
	app.StatsSummary(rec, httptest.NewRequest(http.MethodGet, "/v1/stats/summary", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestAnalyticsErrorDoesNotBlockSubmission(t *testing.T) {
	analytics := newFakeAnalytics()
	analytics.err = errors.New("analytics down")
	app := newTestApp(newFakeJobRepo(), analytics, jobs.Options{})

	req := httptest.NewRequest(http.MethodPost, "/v1/extract/start", strings.NewReader(`{"text":"본문"}`))
	rec := httptest.NewRecorder()
	app.StartExtract(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want submission to succeed regardless", rec.Code)
	}
}

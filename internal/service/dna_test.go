package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/facundofernandezmiguez/mutants/internal/biz"

	"github.com/yola1107/kratos/v2/log"
)

const (
	mutantBody = `{"dna":["ATGCGA","CAGTGC","TTATGT","AGAAGG","CCCCTA","TCACTG"]}`
	humanBody  = `{"dna":["ATGCGA","CCGHCC","TTATGT","AAFAGG","CTCCTA","TCACTG"]}`
	human2Body = `{"dna":["ATGCGA","CTGHCC","TTATGT","AAAAGG","CTCCTA","TCACTG"]}`
)

type memRepo struct {
	mu      sync.Mutex
	records map[string]*biz.DnaRecord
	saveErr error
	listErr error
	panics  bool
}

func newMemRepo() *memRepo {
	return &memRepo{records: make(map[string]*biz.DnaRecord)}
}

func (m *memRepo) SaveIfAbsent(_ context.Context, rec *biz.DnaRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.records[rec.Sequence]; ok {
		return biz.ErrRecordExists
	}
	m.records[rec.Sequence] = rec
	return nil
}

func (m *memRepo) ListAll(context.Context) ([]*biz.DnaRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.panics {
		panic("repo gone")
	}
	if m.listErr != nil {
		return nil, m.listErr
	}
	records := make([]*biz.DnaRecord, 0, len(m.records))
	for _, rec := range m.records {
		records = append(records, rec)
	}
	return records, nil
}

type nopPub struct{}

func (nopPub) Publish(context.Context, *biz.VerificationEvent) error { return nil }

func newTestService(repo biz.DnaRepo) *DnaService {
	logger := log.NewStdLogger(io.Discard)
	return NewDnaService(biz.NewDnaUsecase(repo, nopPub{}, logger), logger)
}

func doRequest(svc *DnaService, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)
	return rec
}

func TestMutantEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "mutant dna",
			body:       mutantBody,
			wantStatus: http.StatusOK,
			wantBody:   `{"isMutant":true}`,
		},
		{
			name:       "human dna",
			body:       humanBody,
			wantStatus: http.StatusForbidden,
			wantBody:   `{"isMutant":false}`,
		},
		{
			name:       "malformed json",
			body:       `{"dna": [`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid JSON format"}`,
		},
		{
			name:       "missing dna field",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"DNA sequence not provided"}`,
		},
		{
			name:       "empty dna array",
			body:       `{"dna":[]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"DNA sequence not provided"}`,
		},
		{
			name:       "empty body",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"DNA sequence not provided"}`,
		},
		{
			name:       "ragged matrix",
			body:       `{"dna":["ATGC","AT","ATGC","ATGC"]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid DNA matrix"}`,
		},
		{
			name:       "wide matrix",
			body:       `{"dna":["ATGC","CAGT"]}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid DNA matrix"}`,
		},
	}

	for _, tc := range tests {
		svc := newTestService(newMemRepo())
		rec := doRequest(svc, http.MethodPost, "/mutant", tc.body)
		if rec.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
		}
		if got := rec.Body.String(); got != tc.wantBody {
			t.Errorf("%s: body = %s, want %s", tc.name, got, tc.wantBody)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s: content type = %q", tc.name, ct)
		}
	}
}

func TestMutantEndpointDuplicate(t *testing.T) {
	svc := newTestService(newMemRepo())

	for i := 0; i < 2; i++ {
		rec := doRequest(svc, http.MethodPost, "/mutant", mutantBody)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
}

func TestMutantEndpointStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.saveErr = io.ErrUnexpectedEOF
	svc := newTestService(repo)

	rec := doRequest(svc, http.MethodPost, "/mutant", mutantBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d despite store failure", rec.Code, http.StatusOK)
	}
	if got := rec.Body.String(); got != `{"isMutant":true}` {
		t.Fatalf("body = %s", got)
	}
}

func TestStatsEndpoint(t *testing.T) {
	svc := newTestService(newMemRepo())

	doRequest(svc, http.MethodPost, "/mutant", mutantBody)
	doRequest(svc, http.MethodPost, "/mutant", humanBody)
	doRequest(svc, http.MethodPost, "/mutant", human2Body)

	rec := doRequest(svc, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	want := `{"count_mutant_dna":1,"count_human_dna":2,"ratio":0.5}`
	if got := rec.Body.String(); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}

func TestStatsEndpointEmptyStore(t *testing.T) {
	svc := newTestService(newMemRepo())

	rec := doRequest(svc, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	want := `{"count_mutant_dna":0,"count_human_dna":0,"ratio":1}`
	if got := rec.Body.String(); got != want {
		t.Fatalf("body = %s, want %s", got, want)
	}
}

func TestStatsEndpointRepoFailure(t *testing.T) {
	repo := newMemRepo()
	repo.listErr = io.ErrUnexpectedEOF
	svc := newTestService(repo)

	rec := doRequest(svc, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := rec.Body.String(); got != `{"error":"Internal Server Error"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	repo := newMemRepo()
	repo.panics = true
	svc := newTestService(repo)

	rec := doRequest(svc, http.MethodGet, "/stats", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := rec.Body.String(); got != `{"error":"Internal Server Error"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestDispatchRouting(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"nested mutant path", http.MethodPost, "/api/v1/mutant/check", mutantBody, http.StatusOK},
		{"mutant via get", http.MethodGet, "/mutant", mutantBody, http.StatusOK},
		{"stats via post", http.MethodPost, "/stats", "", http.StatusOK},
		{"nested stats path", http.MethodGet, "/internal/stats/live", "", http.StatusOK},
		{"mutant wins over stats", http.MethodPost, "/mutant/stats", mutantBody, http.StatusOK},
		{"root", http.MethodGet, "/", "", http.StatusNotFound},
		{"unknown path", http.MethodGet, "/health", "", http.StatusNotFound},
		{"similar but unmatched path", http.MethodGet, "/railstats", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		svc := newTestService(newMemRepo())
		rec := doRequest(svc, tc.method, tc.path, tc.body)
		if rec.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, rec.Code, tc.wantStatus)
		}
		if tc.wantStatus == http.StatusNotFound {
			if got := rec.Body.String(); got != `{"error":"Not Found"}` {
				t.Errorf("%s: body = %s", tc.name, got)
			}
		}
	}
}

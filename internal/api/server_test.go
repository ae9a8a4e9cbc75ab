package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/papersum/internal/config"
	"github.com/dgallion1/papersum/internal/pipeline"
	"github.com/dgallion1/papersum/internal/summarize"
)

const (
	testKey   = "test-key"
	testPaper = "Abstract\nWe study things.\nRelated Work\nOthers did too.\nConclusion:\n"
)

func newTestServer(t *testing.T, withSummarizer bool) *Server {
	t.Helper()
	cfg := config.Config{
		APIKey:             testKey,
		SectionBoundary:    "nearest",
		SummaryConcurrency: 1,
		SessionTTL:         time.Hour,
		MaxUploadBytes:     1 << 20,
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	var client *summarize.Client
	var orch *pipeline.Orchestrator
	if withSummarizer {
		client = summarize.NewClient("extractive", "extractive", summarize.Extractive{MaxWords: 50})
		orch = pipeline.NewOrchestrator(cfg, nil, client, log)
	} else {
		orch = pipeline.NewOrchestrator(cfg, nil, nil, log)
	}
	return NewServer(orch, client, log, cfg)
}

func do(t *testing.T, s *Server, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Authorization", "Bearer "+testKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, s *Server, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte(content))
	_ = mw.Close()
	return do(t, s, http.MethodPost, "/api/documents", &buf, mw.FormDataContentType())
}

type uploadResponse struct {
	SessionID string   `json:"session_id"`
	Filename  string   `json:"filename"`
	Headings  []string `json:"headings"`
}

func uploadPaper(t *testing.T, s *Server) uploadResponse {
	t.Helper()
	rec := upload(t, s, "paper.txt", testPaper)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status = %d body=%s", rec.Code, rec.Body.String())
	}
	var resp uploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return m
}

func TestHealthIsPublic(t *testing.T) {
	s := newTestServer(t, false)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if decode(t, rec)["status"] != "ok" {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats/llm", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token status = %d", rec.Code)
	}
}

func TestUploadDetectsHeadings(t *testing.T) {
	s := newTestServer(t, false)
	resp := uploadPaper(t, s)
	if resp.SessionID == "" || resp.Filename != "paper.txt" {
		t.Fatalf("unexpected response %+v", resp)
	}
	want := []string{"Abstract", "Related work", "Conclusion"}
	if strings.Join(resp.Headings, "|") != strings.Join(want, "|") {
		t.Fatalf("headings = %v, want %v", resp.Headings, want)
	}
}

func TestUploadUnsupportedExtension(t *testing.T) {
	s := newTestServer(t, false)
	rec := upload(t, s, "paper.rtf", "x")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestUploadUnreadableDocument(t *testing.T) {
	s := newTestServer(t, false)
	rec := upload(t, s, "paper.docx", "definitely not a zip archive")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(decode(t, rec)["error"].(string), "error reading paper.docx") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}

func TestGetAndDeleteDocument(t *testing.T) {
	s := newTestServer(t, false)
	resp := uploadPaper(t, s)

	rec := do(t, s, http.MethodGet, "/api/documents/"+resp.SessionID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if decode(t, rec)["session_id"] != resp.SessionID {
		t.Fatalf("body = %s", rec.Body.String())
	}

	rec = do(t, s, http.MethodDelete, "/api/documents/"+resp.SessionID, nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/documents/"+resp.SessionID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodDelete, "/api/documents/"+resp.SessionID, nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d", rec.Code)
	}
}

func TestSetSelection(t *testing.T) {
	s := newTestServer(t, false)
	resp := uploadPaper(t, s)
	path := "/api/documents/" + resp.SessionID + "/selection"

	rec := do(t, s, http.MethodPut, path, strings.NewReader(`{"headings":["Conclusion","abstract","Conclusion"]}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	sel := decode(t, rec)["selected"].([]any)
	if len(sel) != 2 || sel[0] != "Conclusion" || sel[1] != "Abstract" {
		t.Fatalf("selected = %v", sel)
	}

	rec = do(t, s, http.MethodPut, path, strings.NewReader(`{"headings":["Datasets"]}`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown heading status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPut, path, strings.NewReader(`not json`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad json status = %d", rec.Code)
	}
}

func TestGetSection(t *testing.T) {
	s := newTestServer(t, false)
	resp := uploadPaper(t, s)
	base := "/api/documents/" + resp.SessionID + "/sections/"

	rec := do(t, s, http.MethodGet, base+url.PathEscape("Related work"), nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	m := decode(t, rec)
	if m["body"] != "Related Work\nOthers did too." {
		t.Fatalf("body = %q", m["body"])
	}
	if m["heading"] != "Related work" {
		t.Fatalf("heading = %q", m["heading"])
	}

	rec = do(t, s, http.MethodGet, base+"Conclusion", nil, "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty section status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, base+"Datasets", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing heading status = %d", rec.Code)
	}
}

func TestSummarizeAndEdit(t *testing.T) {
	s := newTestServer(t, true)
	resp := uploadPaper(t, s)
	doc := "/api/documents/" + resp.SessionID

	rec := do(t, s, http.MethodPost, doc+"/summaries", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty selection status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPut, doc+"/selection", strings.NewReader(`{"headings":["Abstract","Conclusion"]}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("selection status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodPost, doc+"/summaries", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summaries status = %d body=%s", rec.Code, rec.Body.String())
	}
	var out struct {
		Results []pipeline.HeadingResult `json:"results"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("results = %+v", out.Results)
	}
	if out.Results[0].Status != pipeline.StatusOK || out.Results[0].Summary != "We study things." {
		t.Errorf("abstract result = %+v", out.Results[0])
	}
	if out.Results[1].Status != pipeline.StatusEmpty {
		t.Errorf("conclusion result = %+v", out.Results[1])
	}

	rec = do(t, s, http.MethodPut, doc+"/summaries/Abstract", strings.NewReader(`{"summary":"Hand written."}`), "application/json")
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodPost, doc+"/summaries", nil, "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Results[0].Cached || out.Results[0].Summary != "Hand written." {
		t.Errorf("expected cached edited summary, got %+v", out.Results[0])
	}

	rec = do(t, s, http.MethodPost, doc+"/summaries?force=true", nil, "")
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Results[0].Cached || out.Results[0].Summary != "We study things." {
		t.Errorf("expected regenerated summary, got %+v", out.Results[0])
	}

	rec = do(t, s, http.MethodPut, doc+"/summaries/Datasets", strings.NewReader(`{"summary":"x"}`), "application/json")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("edit unknown heading status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodPut, doc+"/summaries/Abstract", strings.NewReader(`{"summary":"  "}`), "application/json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank summary status = %d", rec.Code)
	}

	rec = do(t, s, http.MethodGet, "/api/stats/llm", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	stats := decode(t, rec)["stats"].(map[string]any)
	if stats["count"].(float64) != 2 {
		t.Errorf("expected 2 recorded calls, got %v", stats["count"])
	}
}

func TestSummarizeWithoutSummarizer(t *testing.T) {
	s := newTestServer(t, false)
	resp := uploadPaper(t, s)
	doc := "/api/documents/" + resp.SessionID
	do(t, s, http.MethodPut, doc+"/selection", strings.NewReader(`{"headings":["Abstract"]}`), "application/json")

	rec := do(t, s, http.MethodPost, doc+"/summaries", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	rec = do(t, s, http.MethodGet, "/api/stats/llm", nil, "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("stats status = %d", rec.Code)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"paper.pdf":        "paper.pdf",
		"../../etc/passwd": "passwd",
		"dir/sub/a.txt":    "a.txt",
		"a..b.txt":         "a_b.txt",
		"":                 "unnamed",
	}
	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

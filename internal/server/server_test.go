package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowkit/flowkit/pkg/autosave"
	"github.com/flowkit/flowkit/pkg/flowchart"
)

const sampleDoc = `{
  "version": "1.0",
  "createdAt": "2024-01-01T00:00:00Z",
  "modifiedAt": "2024-01-01T00:00:00Z",
  "nodes": [
    {"id": "1", "type": "start", "position": {"x": 0, "y": 0}, "data": {"label": "Start"}},
    {"id": "2", "type": "process", "position": {"x": 0, "y": 200}, "data": {"label": "Work"}}
  ],
  "edges": [
    {"id": "e-1", "source": "1", "target": "2", "sourceHandle": "out", "targetHandle": "in"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := autosave.NewFileStore(filepath.Join(t.TempDir(), "autosave.json"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return New(Config{Store: store})
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/layout", strings.NewReader(sampleDoc))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var resp positionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(resp.Positions))
	}
	start, ok := resp.Positions["1"]
	if !ok {
		t.Fatal("missing position for start node")
	}
	if start.Y != 50 {
		t.Errorf("start Y = %v, want 50", start.Y)
	}
	child := resp.Positions["2"]
	if child.Y <= start.Y {
		t.Errorf("child Y = %v, want below start Y %v", child.Y, start.Y)
	}
}

func TestLayoutEndpointRejectsInvalidDocument(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/layout", strings.NewReader(`{"nodes": []}`))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestExportEndpointMermaid(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/export/mermaid", strings.NewReader(sampleDoc))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "flowchart TD") {
		t.Errorf("body does not start with flowchart TD:\n%s", body)
	}
	if !strings.Contains(body, "Start") || !strings.Contains(body, "Work") {
		t.Errorf("body missing node labels:\n%s", body)
	}
}

func TestExportEndpointUnsupportedFormat(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/export/bmp", strings.NewReader(sampleDoc))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestAutosaveRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	router := srv.Router()

	// Empty slot reads as not found.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autosave", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET empty slot: status = %d, want 404", rec.Code)
	}

	state := autosave.State{
		Nodes:         []flowchart.Node{{ID: "1", Kind: flowchart.KindStart, Label: "Start"}},
		NodeIDCounter: 2,
	}
	payload, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal state: %v", err)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/autosave", bytes.NewReader(payload)))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT: status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autosave", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET: status = %d, want 200", rec.Code)
	}
	var loaded autosave.State
	if err := json.Unmarshal(rec.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if len(loaded.Nodes) != 1 || loaded.Nodes[0].ID != "1" {
		t.Errorf("loaded nodes = %+v, want single node 1", loaded.Nodes)
	}
	if loaded.NodeIDCounter != 2 {
		t.Errorf("nodeIdCounter = %d, want 2", loaded.NodeIDCounter)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/autosave", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE: status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/autosave", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET after clear: status = %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

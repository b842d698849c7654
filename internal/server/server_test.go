package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagekit/imageseq/pkg/layout"
	"github.com/stagekit/imageseq/pkg/pipeline"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := New(Config{
		Runner:  runner,
		Logger:  logger,
		Version: "test",
	})

	ts := httptest.NewServer(srv.Router(30 * time.Second))
	t.Cleanup(ts.Close)
	return ts
}

func gapPtr(v float64) *float64 { return &v }

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("GET health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "healthy" {
		t.Errorf("status = %q, want healthy", health.Status)
	}
	if health.Version != "test" {
		t.Errorf("version = %q, want test", health.Version)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/layout", LayoutRequest{
		Images: []layout.Image{
			{ID: "a.png", WidthPx: 300, HeightPx: 300},
			{ID: "b.png", WidthPx: 300, HeightPx: 300},
			{ID: "c.png", WidthPx: 300, HeightPx: 300},
		},
		PixelsPerInch: 300,
		GapFraction:   gapPtr(0.1),
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 3 {
		t.Errorf("count = %d, want 3", body.Count)
	}

	// Middle of 3 equal images sits at the origin.
	mid, ok := body.Transforms["b.png"]
	if !ok {
		t.Fatal("missing transform for b.png")
	}
	if mid.Translate.X() != 0 {
		t.Errorf("middle image x = %v, want 0", mid.Translate.X())
	}
	// 300px at 300ppi is 2.54cm.
	if mid.Scale.X() != 2.54 {
		t.Errorf("middle image width = %v, want 2.54", mid.Scale.X())
	}
}

func TestLayoutEndpointZeroGap(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/layout", LayoutRequest{
		Images: []layout.Image{
			{ID: "a.png", WidthPx: 300, HeightPx: 300},
			{ID: "b.png", WidthPx: 300, HeightPx: 300},
		},
		PixelsPerInch: 300,
		GapFraction:   gapPtr(0),
	})

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body LayoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	// With zero gap, two 2.54cm images sit edge to edge: centers 2.54 apart.
	// A gap that silently fell back to the default would spread them wider.
	a, b := body.Transforms["a.png"], body.Transforms["b.png"]
	if got := b.Translate.X() - a.Translate.X(); got != 2.54 {
		t.Errorf("center spacing = %v, want 2.54 (zero gap must not become the default)", got)
	}
}

func TestLayoutEndpointRequiresImages(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/layout", LayoutRequest{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error != "INVALID_PARAMETER" {
		t.Errorf("error = %q, want INVALID_PARAMETER", body.Error)
	}
	if body.RequestID == "" {
		t.Error("error responses should carry a request id")
	}
}

func TestLayoutEndpointRejectsBadPPI(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/layout", LayoutRequest{
		Images:        []layout.Image{{ID: "a.png", WidthPx: 100, HeightPx: 100}},
		PixelsPerInch: -10,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestLayoutEndpointRejectsInvalidJSON(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/layout", "application/json",
		bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestArrangeEndpointWithInlineImages(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/arrange", pipeline.Options{
		Images: []layout.Image{
			{ID: "a.png", WidthPx: 300, HeightPx: 300},
			{ID: "b.png", WidthPx: 300, HeightPx: 300},
		},
		Formats: []string{pipeline.FormatUSDA, pipeline.FormatDOT},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body ArrangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.ImageCount != 2 {
		t.Errorf("image_count = %d, want 2", body.ImageCount)
	}
	if !bytes.HasPrefix(body.Artifacts["usda"], []byte("#usda 1.0")) {
		t.Error("usda artifact should start with the usda magic")
	}
	if !bytes.HasPrefix(body.Artifacts["dot"], []byte("digraph Stage {")) {
		t.Error("dot artifact should contain a digraph")
	}
}

func TestArrangeEndpointRejectsUnknownFormat(t *testing.T) {
	ts := setupTestServer(t)

	resp := postJSON(t, ts.URL+"/api/v1/arrange", pipeline.Options{
		Images:  []layout.Image{{ID: "a.png", WidthPx: 100, HeightPx: 100}},
		Formats: []string{"gif"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var body ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if body.Error != "INVALID_FORMAT" {
		t.Errorf("error = %q, want INVALID_FORMAT", body.Error)
	}
}

func TestCORSPreflights(t *testing.T) {
	ts := setupTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/v1/layout", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

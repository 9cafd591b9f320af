package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/ballotgrid/pkg/election"
	"github.com/matzehuels/ballotgrid/pkg/election/electiontest"
	"github.com/matzehuels/ballotgrid/pkg/grid"
	"github.com/matzehuels/ballotgrid/pkg/pipeline"
	"github.com/matzehuels/ballotgrid/pkg/rotation"
	"github.com/matzehuels/ballotgrid/pkg/store"
)

// builtElection lays out the fixture once per test binary.
var builtElection *election.Election

func built(t *testing.T) *election.Election {
	t.Helper()
	if builtElection != nil {
		return builtElection
	}
	res, err := pipeline.NewRunner(nil, nil, nil).Build(context.Background(), electiontest.Fixture(), pipeline.Options{
		Strategy: rotation.Identity{},
		Types:    []election.BallotType{election.BallotTypePrecinct},
		Modes:    []election.BallotMode{election.BallotModeOfficial},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	builtElection = res.Election
	return builtElection
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(st, log.New(&bytes.Buffer{}), grid.Calibration{})
	return s, s.Handler()
}

func do(h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("error body %q: %v", w.Body.String(), err)
	}
	return resp
}

// saveBuilt stores the built fixture through the API and returns its hash.
func saveBuilt(t *testing.T, h http.Handler) string {
	t.Helper()
	var buf bytes.Buffer
	if err := election.Write(&buf, built(t)); err != nil {
		t.Fatal(err)
	}
	w := do(h, http.MethodPost, "/elections", buf.Bytes())
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /elections = %d: %s", w.Code, w.Body.String())
	}
	var resp saveElectionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"1_en", "2_en"}, resp.BallotStyles); diff != "" {
		t.Errorf("ballot styles mismatch (-want +got):\n%s", diff)
	}
	if got := w.Header().Get("Location"); got != "/elections/"+resp.Hash {
		t.Errorf("Location = %q", got)
	}
	return resp.Hash
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t)
	w := do(h, http.MethodGet, "/healthz", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Status string `json:"status"`
		Build  struct {
			Version string `json:"version"`
		} `json:"build"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || resp.Build.Version == "" {
		t.Errorf("health = %+v", resp)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("response has no request id")
	}
}

func TestRequestIDPropagated(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/elections/"+strings.Repeat("0", 64), nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "req-42" {
		t.Errorf("request id header = %q", got)
	}
	if resp := decodeError(t, w); resp.RequestID != "req-42" {
		t.Errorf("error body request id = %q", resp.RequestID)
	}
}

func TestGetLayout(t *testing.T) {
	_, h := newTestServer(t)
	hash := saveBuilt(t, h)

	w := do(h, http.MethodGet, "/elections/"+hash+"/layouts/2_en", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var got grid.Layout
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	want, _ := built(t).GridLayout("2_en")
	if diff := cmp.Diff(*want, got); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	w = do(h, http.MethodGet, "/elections/"+hash, nil)
	if w.Code != http.StatusOK {
		t.Errorf("GET election = %d", w.Code)
	}
}

func TestNotFound(t *testing.T) {
	_, h := newTestServer(t)
	hash := saveBuilt(t, h)

	tests := []struct {
		name string
		path string
	}{
		{"unknown hash", "/elections/" + strings.Repeat("a", 64) + "/layouts/1_en"},
		{"malformed hash", "/elections/..%2Fetc/layouts/1_en"},
		{"unknown style", "/elections/" + hash + "/layouts/9_en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodGet, tt.path, nil)
			if w.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404: %s", w.Code, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Code != "NOT_FOUND" {
				t.Errorf("code = %q", resp.Code)
			}
		})
	}
}

func TestSaveElectionErrors(t *testing.T) {
	_, h := newTestServer(t)

	var unbuilt bytes.Buffer
	if err := election.Write(&unbuilt, electiontest.Fixture()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		body   []byte
		status int
		code   string
	}{
		{"malformed json", []byte("{"), http.StatusBadRequest, "INVALID_ELECTION"},
		{"no grid layouts", unbuilt.Bytes(), http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/elections", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestMarks(t *testing.T) {
	_, h := newTestServer(t)
	hash := saveBuilt(t, h)

	body, _ := json.Marshal(marksRequest{
		BallotStyleID: "1_en",
		Votes: election.Votes{
			"mayor":   {{ID: "martha-jones"}},
			"council": {{ID: "alice-adams", PartyIDs: []string{"rep"}}, {WriteIn: true, Name: "Zed Zimmer"}},
			"prop-1":  {{ID: "prop-1-yes"}},
		},
		Calibration: &grid.Calibration{OffsetMmX: 0.5},
	})
	w := do(h, http.MethodPost, "/elections/"+hash+"/marks", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	if err != nil || disposition != "inline" || params["filename"] != "1_en-marks.pdf" {
		t.Errorf("Content-Disposition = %q (%v)", w.Header().Get("Content-Disposition"), err)
	}
}

func TestContentDispositionQuoting(t *testing.T) {
	id := `1_en"; filename="evil.exe`
	v := contentDisposition(id)
	_, params, err := mime.ParseMediaType(v)
	if err != nil {
		t.Fatalf("ParseMediaType(%q): %v", v, err)
	}
	if params["filename"] != id+"-marks.pdf" {
		t.Errorf("filename = %q, want %q", params["filename"], id+"-marks.pdf")
	}
}

func TestMarksErrors(t *testing.T) {
	_, h := newTestServer(t)
	hash := saveBuilt(t, h)

	tests := []struct {
		name   string
		hash   string
		body   string
		status int
		code   string
	}{
		{"malformed body", hash, `{"ballotStyleId":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown field", hash, `{"ballotStyleId":"1_en","colour":"red"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"missing style", hash, `{"votes":{}}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown hash", strings.Repeat("b", 64), `{"ballotStyleId":"1_en"}`, http.StatusNotFound, "NOT_FOUND"},
		{"unknown contest", hash, `{"ballotStyleId":"1_en","votes":{"governor":[{"id":"x"}]}}`, http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
		{"contest not on style", hash, `{"ballotStyleId":"1_en","votes":{"school-board":[{"id":"erin-evans"}]}}`, http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
		{"unknown candidate", hash, `{"ballotStyleId":"1_en","votes":{"mayor":[{"id":"nobody"}]}}`, http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
		{"base not a pdf", hash, `{"ballotStyleId":"1_en","basePdf":"bm90IGEgcGRm"}`, http.StatusUnprocessableEntity, "PRECONDITION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/elections/"+tt.hash+"/marks", []byte(tt.body))
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if resp := decodeError(t, w); resp.Code != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	if got := status(context.Canceled); got != http.StatusInternalServerError {
		t.Errorf("status(plain error) = %d", got)
	}
}

package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hourcoin/blockchain"
	"hourcoin/server"
	"hourcoin/validator"
)

func maxDifficulty() blockchain.U128 {
	var d blockchain.U128
	for i := range d {
		d[i] = 0xFF
	}
	return d
}

func newTestStatusServer(t *testing.T) *Server {
	t.Helper()
	v := validator.New(maxDifficulty(), nil)
	genesis := blockchain.NewGenesisBlock(
		[]blockchain.Output{{To: "genesis", Value: 2.0, Timestamp: 1}},
		1,
		maxDifficulty(),
	)
	if err := v.AdmitGenesis(genesis); err != nil {
		t.Fatalf("genesis admission failed: %v", err)
	}
	return New(v, server.NewConnectionRegistry())
}

func TestHealthz(t *testing.T) {
	s := newTestStatusServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestStatusReportsChainState(t *testing.T) {
	s := newTestStatusServer(t)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.BlockCount != 1 {
		t.Errorf("BlockCount = %d, want 1", body.BlockCount)
	}
	if body.DifficultyHex == "" {
		t.Error("DifficultyHex is empty")
	}
	if body.LastHashHex == "" {
		t.Error("LastHashHex is empty")
	}
	if body.OpenConnections != 0 {
		t.Errorf("OpenConnections = %d, want 0", body.OpenConnections)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	s := newTestStatusServer(t)

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

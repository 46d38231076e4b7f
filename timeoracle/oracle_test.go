package timeoracle

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"hourcoin/tai"
)

func TestFetchTAIMillis(t *testing.T) {
	unixSeconds := int64(1_700_000_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(response{UnixTime: unixSeconds})
	}))
	defer srv.Close()

	o := New(srv.URL)
	got, err := o.FetchTAIMillis()
	if err != nil {
		t.Fatalf("FetchTAIMillis: %v", err)
	}

	want := tai.UTCToTAIMillis(uint64(unixSeconds) * 1000)
	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestFetchTAIMillisNonFatalFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	o := New(srv.URL)
	_, ok := o.NowTAIMillisOrFallback()
	if ok {
		t.Fatal("expected fallback to be used on a failing oracle")
	}
}

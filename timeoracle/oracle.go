// Package timeoracle implements the optional external UTC time source
// (spec.md §6): an HTTP GET returning a JSON document with a UNIX-seconds
// timestamp, converted to TAI milliseconds. Failure is non-fatal; callers
// fall back to the local TAI clock. Grounded on the plain net/http +
// encoding/json client style used throughout
// thanhnp95-chain-apis/internal/rpc — no HTTP client library beyond
// stdlib appears anywhere in the retrieved pack.
package timeoracle

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hourcoin/tai"
)

// response is the shape expected from the external time oracle: a single
// field convertible to a UNIX timestamp in seconds (spec.md §6).
type response struct {
	UnixTime int64 `json:"unixtime"`
}

// Oracle fetches TAI milliseconds from an external HTTP time source.
type Oracle struct {
	URL    string
	Client *http.Client
}

// New returns an Oracle pointed at url, using a client with a bounded
// timeout so a hung time source cannot stall a caller indefinitely.
func New(url string) *Oracle {
	return &Oracle{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

// FetchTAIMillis performs the GET and converts the returned UNIX seconds
// to TAI milliseconds via tai.UTCToTAIMillis. Any failure — transport
// error, non-200 status, malformed body — is returned as an error; the
// system's fallback to the local clock (spec.md §6) is the caller's
// responsibility, not this package's.
func (o *Oracle) FetchTAIMillis() (uint64, error) {
	resp, err := o.Client.Get(o.URL)
	if err != nil {
		return 0, fmt.Errorf("timeoracle: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("timeoracle: unexpected status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("timeoracle: decode response: %w", err)
	}
	if body.UnixTime <= 0 {
		return 0, fmt.Errorf("timeoracle: non-positive unix time %d", body.UnixTime)
	}

	utcMillis := uint64(body.UnixTime) * 1000
	return tai.UTCToTAIMillis(utcMillis), nil
}

// NowTAIMillisOrFallback fetches from the oracle and falls back to the
// local TAI clock on any failure, logging nothing itself — callers that
// care about the failure should inspect the returned bool.
func (o *Oracle) NowTAIMillisOrFallback() (uint64, bool) {
	ms, err := o.FetchTAIMillis()
	if err != nil {
		return tai.NowTAIMillis(), false
	}
	return ms, true
}

package wire

import (
	"encoding/json"
	"testing"
)

// TestUnitVariantMarshalsAsBareString covers spec.md §4.7: a fieldless
// message variant serializes as its bare type name, matching serde's
// default externally tagged representation of a unit enum variant.
func TestUnitVariantMarshalsAsBareString(t *testing.T) {
	env, err := NewEnvelope(TypeGetBlockchainInfo, GetBlockchainInfoRequest{})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(body), `"GetBlockchainInfo"`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

// TestStructVariantMarshalsAsSingleKeyObject covers spec.md §4.7: every
// other variant serializes as a single-key object naming the variant.
func TestStructVariantMarshalsAsSingleKeyObject(t *testing.T) {
	env, err := NewEnvelope(TypeCheckLockout, CheckLockoutRequest{MinerID: "alice"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if got, want := string(body), `{"CheckLockout":{"miner_id":"alice"}}`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}
}

// TestUnmarshalBareStringVariant confirms the decode side accepts the
// bare-string shape a peer implementation would send for a unit variant.
func TestUnmarshalBareStringVariant(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`"GetBlockchainInfo"`), &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.Type != TypeGetBlockchainInfo {
		t.Errorf("Type = %s, want %s", env.Type, TypeGetBlockchainInfo)
	}
	var req GetBlockchainInfoRequest
	if err := env.Decode(&req); err != nil {
		t.Errorf("Decode: %v", err)
	}
}

// TestUnmarshalSingleKeyObjectVariant confirms the decode side accepts
// the single-key object shape a peer implementation would send for a
// struct or tuple variant.
func TestUnmarshalSingleKeyObjectVariant(t *testing.T) {
	var env Envelope
	if err := json.Unmarshal([]byte(`{"CheckLockout":{"miner_id":"bob"}}`), &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.Type != TypeCheckLockout {
		t.Errorf("Type = %s, want %s", env.Type, TypeCheckLockout)
	}
	var req CheckLockoutRequest
	if err := env.Decode(&req); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if req.MinerID != "bob" {
		t.Errorf("MinerID = %s, want bob", req.MinerID)
	}
}

// TestUnmarshalRejectsMultiKeyObject guards the single-variant invariant:
// a frame naming more than one variant at once is not a valid envelope.
func TestUnmarshalRejectsMultiKeyObject(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{"CheckLockout":{},"SubmitBlock":{}}`), &env)
	if err == nil {
		t.Fatal("expected an error for a multi-key envelope object")
	}
}

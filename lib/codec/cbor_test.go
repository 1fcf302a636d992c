// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
)

// sampleRecord is a representative stored artifact using cbor struct
// tags (the convention for purely-internal types).
type sampleRecord struct {
	Kind    string `cbor:"kind"`
	Label   string `cbor:"label,omitempty"`
	Entries int    `cbor:"entries"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleRecord{
		Kind:    "bench-report",
		Label:   "baseline",
		Entries: 42,
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Marshal produced empty output")
	}

	var decoded sampleRecord
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	// Map iteration order is randomized in Go; deterministic encoding
	// must sort keys so the same map always encodes identically.
	value := map[string]int{"zulu": 26, "alpha": 1, "mike": 13, "echo": 5}

	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 16; i++ {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding differs between runs:\n%x\n%x", first, again)
		}
	}
}

func TestStreamEncoderDecoder(t *testing.T) {
	var buf bytes.Buffer
	encoder := NewEncoder(&buf)
	for i := 0; i < 3; i++ {
		if err := encoder.Encode(sampleRecord{Kind: "item", Entries: i}); err != nil {
			t.Fatalf("Encode(%d): %v", i, err)
		}
	}

	decoder := NewDecoder(&buf)
	for i := 0; i < 3; i++ {
		var rec sampleRecord
		if err := decoder.Decode(&rec); err != nil {
			t.Fatalf("Decode(%d): %v", i, err)
		}
		if rec.Entries != i {
			t.Errorf("Entries = %d, want %d", rec.Entries, i)
		}
	}
}

func TestDecodeToAnyUsesStringKeyMaps(t *testing.T) {
	data, err := Marshal(map[string]any{"outer": map[string]any{"inner": 1}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	outer, ok := decoded.(map[string]any)
	if !ok {
		t.Fatalf("decoded type = %T, want map[string]any", decoded)
	}
	if _, ok := outer["outer"].(map[string]any); !ok {
		t.Fatalf("nested type = %T, want map[string]any", outer["outer"])
	}
}

func TestDiagnose(t *testing.T) {
	data, err := Marshal(sampleRecord{Kind: "bench-report", Entries: 2})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diag, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diag, "bench-report") {
		t.Errorf("diagnostic %q does not mention the kind field", diag)
	}
}

func TestUnmarshalIgnoresUnknownFields(t *testing.T) {
	// Encode a superset of sampleRecord and decode into it; the extra
	// field must be skipped for forward compatibility.
	data, err := Marshal(map[string]any{"kind": "x", "entries": 9, "future": true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var rec sampleRecord
	if err := Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.Kind != "x" || rec.Entries != 9 {
		t.Errorf("decoded %+v, want kind=x entries=9", rec)
	}
}

// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration
// for plinth's on-disk artifacts.
//
// Plinth uses two serialization formats with a clear boundary: JSON
// for terminal-facing output (the --json flags on CLI commands), and
// CBOR for stored artifacts such as benchmark reports. This package
// provides the shared CBOR encoding and decoding modes so every
// artifact encodes identically without duplicating configuration.
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Same logical data always produces identical bytes, so a
// report can be hashed or diffed byte-for-byte.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
//
// [Diagnose] renders stored CBOR in RFC 8949 diagnostic notation for
// inspection without knowing the schema.
package codec

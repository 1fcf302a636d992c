// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package typename

import (
	"reflect"
	"testing"
	"unsafe"
)

type point struct {
	X, Y float64
}

type labeled struct {
	ID   uint32
	Name string
}

type nested struct {
	P    point
	Tags [4]uint8
}

func TestName(t *testing.T) {
	if got := Name[int](); got != "int" {
		t.Errorf("Name[int] = %q, want %q", got, "int")
	}
	if got := Name[[]byte](); got != "[]uint8" {
		t.Errorf("Name[[]byte] = %q, want %q", got, "[]uint8")
	}
	if got := Name[point](); got != "typename.point" {
		t.Errorf("Name[point] = %q, want %q", got, "typename.point")
	}
	if got := Name[*point](); got != "*typename.point" {
		t.Errorf("Name[*point] = %q, want %q", got, "*typename.point")
	}
}

func TestShort(t *testing.T) {
	if got := Short[point](); got != "point" {
		t.Errorf("Short[point] = %q, want %q", got, "point")
	}
	if got := Short[int64](); got != "int64" {
		t.Errorf("Short[int64] = %q, want %q", got, "int64")
	}
	// Unnamed types fall back to the full string form.
	if got := Short[map[string]int](); got != "map[string]int" {
		t.Errorf("Short[map[string]int] = %q, want %q", got, "map[string]int")
	}
}

func TestFull(t *testing.T) {
	want := "github.com/plinth-foundation/plinth/lib/typename.point"
	if got := Full[point](); got != want {
		t.Errorf("Full[point] = %q, want %q", got, want)
	}
	if got := Full[int](); got != "int" {
		t.Errorf("Full[int] = %q, want %q", got, "int")
	}
}

func TestPkgPath(t *testing.T) {
	want := "github.com/plinth-foundation/plinth/lib/typename"
	if got := PkgPath[point](); got != want {
		t.Errorf("PkgPath[point] = %q, want %q", got, want)
	}
	if got := PkgPath[int](); got != "" {
		t.Errorf("PkgPath[int] = %q, want empty", got)
	}
}

func TestSizeAndAlign(t *testing.T) {
	if got := SizeOf[point](); got != unsafe.Sizeof(point{}) {
		t.Errorf("SizeOf[point] = %d, want %d", got, unsafe.Sizeof(point{}))
	}
	if got := SizeOf[struct{}](); got != 0 {
		t.Errorf("SizeOf[struct{}] = %d, want 0", got)
	}
	if got := AlignOf[uint64](); got != unsafe.Alignof(uint64(0)) {
		t.Errorf("AlignOf[uint64] = %d, want %d", got, unsafe.Alignof(uint64(0)))
	}
}

func TestPointerFree(t *testing.T) {
	tests := []struct {
		name string
		got  bool
		want bool
	}{
		{"int", PointerFree[int](), true},
		{"float64", PointerFree[float64](), true},
		{"uintptr", PointerFree[uintptr](), true},
		{"string", PointerFree[string](), false},
		{"slice", PointerFree[[]int](), false},
		{"pointer", PointerFree[*int](), false},
		{"map", PointerFree[map[int]int](), false},
		{"chan", PointerFree[chan int](), false},
		{"unsafe.Pointer", PointerFree[unsafe.Pointer](), false},
		{"flat struct", PointerFree[point](), true},
		{"struct with string", PointerFree[labeled](), false},
		{"nested struct", PointerFree[nested](), true},
		{"array of structs", PointerFree[[8]point](), true},
		{"array of strings", PointerFree[[8]string](), false},
		{"empty array of strings", PointerFree[[0]string](), true},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("PointerFree(%s) = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestPointerFreeType(t *testing.T) {
	if !PointerFreeType(reflect.TypeOf(point{})) {
		t.Error("PointerFreeType(point) = false, want true")
	}
	if PointerFreeType(reflect.TypeOf("")) {
		t.Error("PointerFreeType(string) = true, want false")
	}
}

// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package typename

import (
	"reflect"
	"strings"
)

// Name returns the type's string form with short package qualifiers,
// such as "int", "[]byte", or "dynarray.Array[int]".
func Name[T any]() string {
	return reflect.TypeFor[T]().String()
}

// Short returns the type's name without any package qualifier. For
// unnamed types (slices, maps, pointers) it falls back to the full
// string form.
func Short[T any]() string {
	t := reflect.TypeFor[T]()
	if n := t.Name(); n != "" {
		return n
	}
	return t.String()
}

// PkgPath returns the import path of the package that defines the
// type, or "" for predeclared and unnamed types.
func PkgPath[T any]() string {
	return reflect.TypeFor[T]().PkgPath()
}

// Full returns the import-path-qualified name of a named type, such
// as "github.com/plinth-foundation/plinth/lib/vecmath.Vec3". For
// predeclared and unnamed types it is equivalent to Name.
func Full[T any]() string {
	t := reflect.TypeFor[T]()
	path := t.PkgPath()
	if path == "" {
		return t.String()
	}
	name := t.String()
	// String() already carries the short package qualifier; replace it
	// with the full path so the result is unambiguous across modules.
	if short, ok := shortQualifier(path); ok && strings.HasPrefix(name, short+".") {
		return path + "." + strings.TrimPrefix(name, short+".")
	}
	return path + "." + t.Name()
}

func shortQualifier(pkgPath string) (string, bool) {
	if i := strings.LastIndexByte(pkgPath, '/'); i >= 0 {
		return pkgPath[i+1:], true
	}
	return pkgPath, pkgPath != ""
}

// SizeOf returns the size in bytes of a value of the type, including
// any padding. Zero for zero-size types such as struct{}.
func SizeOf[T any]() uintptr {
	return reflect.TypeFor[T]().Size()
}

// AlignOf returns the required alignment in bytes of a value of the
// type.
func AlignOf[T any]() uintptr {
	return uintptr(reflect.TypeFor[T]().Align())
}

// PointerFree reports whether values of the type contain no pointers:
// no pointer, slice, map, channel, function, interface, string, or
// unsafe.Pointer fields at any nesting depth. Pointer-free values can
// live in memory that the garbage collector never scans.
func PointerFree[T any]() bool {
	return PointerFreeType(reflect.TypeFor[T]())
}

// PointerFreeType is the reflect.Type form of [PointerFree].
func PointerFreeType(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		// A zero-length array of any element type holds nothing.
		if t.Len() == 0 {
			return true
		}
		return PointerFreeType(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !PointerFreeType(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		// Chan, Func, Interface, Map, Pointer, Slice, String,
		// UnsafePointer all carry pointers.
		return false
	}
}

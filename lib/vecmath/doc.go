// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

// Package vecmath provides small fixed-size vector types for 2, 3,
// and 4 dimensions with float64 components.
//
// All types are plain value types and every operation returns a new
// value; nothing in this package allocates or synchronizes. [Vec3]
// carries the full set of geometric helpers including [Vec3.Cross];
// [Vec2] and [Vec4] cover the component-wise subset.
//
// Normalizing the zero vector yields the zero vector rather than NaN
// components, so chained math stays finite without callers guarding
// every length.
package vecmath

// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package vecmath

import "math"

// Vec4 is a 4D vector.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 constructs a [Vec4] from its components.
func V4(x, y, z, w float64) Vec4 { return Vec4{X: x, Y: y, Z: z, W: w} }

func (v Vec4) Add(o Vec4) Vec4 { return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W} }
func (v Vec4) Sub(o Vec4) Vec4 { return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W} }
func (v Vec4) Neg() Vec4       { return Vec4{-v.X, -v.Y, -v.Z, -v.W} }

// Scale multiplies every component by s.
func (v Vec4) Scale(s float64) Vec4 { return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s} }

// Mul is the component-wise (Hadamard) product.
func (v Vec4) Mul(o Vec4) Vec4 { return Vec4{v.X * o.X, v.Y * o.Y, v.Z * o.Z, v.W * o.W} }

func (v Vec4) Dot(o Vec4) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z + v.W*o.W }

func (v Vec4) Len() float64   { return math.Sqrt(v.Dot(v)) }
func (v Vec4) LenSq() float64 { return v.Dot(v) }

// Dist returns the Euclidean distance between v and o.
func (v Vec4) Dist(o Vec4) float64 { return v.Sub(o).Len() }

// Normalize returns v scaled to unit length. The zero vector
// normalizes to the zero vector.
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l == 0 {
		return Vec4{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates linearly from v to o; t=0 yields v, t=1 yields o.
func (v Vec4) Lerp(o Vec4, t float64) Vec4 {
	return Vec4{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
		W: v.W + (o.W-v.W)*t,
	}
}

// Clamp limits each component to [lo, hi] taken component-wise.
func (v Vec4) Clamp(lo, hi Vec4) Vec4 {
	return Vec4{
		X: clamp(v.X, lo.X, hi.X),
		Y: clamp(v.Y, lo.Y, hi.Y),
		Z: clamp(v.Z, lo.Z, hi.Z),
		W: clamp(v.W, lo.W, hi.W),
	}
}

func (v Vec4) Min(o Vec4) Vec4 {
	return Vec4{math.Min(v.X, o.X), math.Min(v.Y, o.Y), math.Min(v.Z, o.Z), math.Min(v.W, o.W)}
}

func (v Vec4) Max(o Vec4) Vec4 {
	return Vec4{math.Max(v.X, o.X), math.Max(v.Y, o.Y), math.Max(v.Z, o.Z), math.Max(v.W, o.W)}
}

func (v Vec4) Abs() Vec4 {
	return Vec4{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z), math.Abs(v.W)}
}

// Eq reports exact component equality.
func (v Vec4) Eq(o Vec4) bool { return v == o }

// ApproxEq reports whether every component of v is within eps of o.
func (v Vec4) ApproxEq(o Vec4, eps float64) bool {
	return near(v.X, o.X, eps) && near(v.Y, o.Y, eps) &&
		near(v.Z, o.Z, eps) && near(v.W, o.W, eps)
}

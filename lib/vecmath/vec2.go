// Copyright 2026 The Plinth Authors
// SPDX-License-Identifier: Apache-2.0

package vecmath

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float64
}

// V2 constructs a [Vec2] from its components.
func V2(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Neg() Vec2       { return Vec2{-v.X, -v.Y} }

// Scale multiplies every component by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Mul is the component-wise (Hadamard) product.
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Len() float64   { return math.Sqrt(v.Dot(v)) }
func (v Vec2) LenSq() float64 { return v.Dot(v) }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Normalize returns v scaled to unit length. The zero vector
// normalizes to the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Lerp interpolates linearly from v to o; t=0 yields v, t=1 yields o.
func (v Vec2) Lerp(o Vec2, t float64) Vec2 {
	return Vec2{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
	}
}

// Clamp limits each component to [lo, hi] taken component-wise.
func (v Vec2) Clamp(lo, hi Vec2) Vec2 {
	return Vec2{
		X: clamp(v.X, lo.X, hi.X),
		Y: clamp(v.Y, lo.Y, hi.Y),
	}
}

func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math.Min(v.X, o.X), math.Min(v.Y, o.Y)} }
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math.Max(v.X, o.X), math.Max(v.Y, o.Y)} }
func (v Vec2) Abs() Vec2       { return Vec2{math.Abs(v.X), math.Abs(v.Y)} }

// Eq reports exact component equality.
func (v Vec2) Eq(o Vec2) bool { return v == o }

// ApproxEq reports whether every component of v is within eps of o.
func (v Vec2) ApproxEq(o Vec2, eps float64) bool {
	return near(v.X, o.X, eps) && near(v.Y, o.Y, eps)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func near(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

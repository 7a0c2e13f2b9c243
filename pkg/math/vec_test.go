package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := 5.0
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Lerp(t *testing.T) {
	a := Vec2{350, 600}
	b := Vec2{400, 400}

	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got, want := a.Lerp(b, 0.25), (Vec2{362.5, 550}); got != want {
		t.Errorf("Lerp(0.25) = %v, want %v", got, want)
	}

	c, d := Vec2{0.1, 0.7}, Vec2{0.7, 0.1}
	if got := c.Lerp(d, 1); got != d {
		t.Errorf("Lerp(1) = %v, want %v", got, d)
	}
}

func TestVec2IsFinite(t *testing.T) {
	tests := []struct {
		v    Vec2
		want bool
	}{
		{Vec2{1, 2}, true},
		{Vec2{math.NaN(), 0}, false},
		{Vec2{0, math.Inf(1)}, false},
		{Vec2{math.Inf(-1), math.Inf(-1)}, false},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("%v.IsFinite() = %v, want %v", tt.v, got, tt.want)
		}
	}
}

package math

import (
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Length(t *testing.T) {
	v := Vec3{2, 3, 6}
	if got := v.Length(); got != 7 {
		t.Errorf("Vec3.Length() = %v, want 7", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{0.3, 0.5, 0.8}.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}

	if zero := (Vec3{}).Normalize(); zero != (Vec3{}) {
		t.Errorf("zero vector Normalize() = %v, want zero", zero)
	}
}

func TestVec3Array(t *testing.T) {
	v := Vec3{1, 2, 3}
	if Vec3FromArray(v.Array()) != v {
		t.Errorf("array round trip changed %v", v)
	}
}

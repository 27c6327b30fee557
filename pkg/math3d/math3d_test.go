package math3d

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func isIdentity4(m Mat4) bool {
	id := Identity()
	for i := range m {
		if math.Abs(m[i]-id[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestMat4InverseProduct(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"rotate scale translate", Translate(V3(1, 2, 3)).Mul(RotateY(0.7)).Mul(Scale(V3(2, 3, 4)))},
		{"look at", LookAt(V3(3, 4, 5), V3(0, 0, 0), Up())},
		{"viewport projection", Viewport(10, 20, 640, 480, 255).Mul(Projection(5))},
		{"zero leading pivot", Mat4{
			0, 1, 0, 0,
			1, 0, 0, 0,
			0, 0, 0, 2,
			0, 0, 3, 0,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv, err := tc.m.Inverse()
			if err != nil {
				t.Fatalf("Inverse() error = %v", err)
			}
			if p := tc.m.Mul(inv); !isIdentity4(p) {
				t.Errorf("M * M^-1 = %v, want identity", p)
			}
			if p := inv.Mul(tc.m); !isIdentity4(p) {
				t.Errorf("M^-1 * M = %v, want identity", p)
			}
		})
	}
}

func TestMat4InverseLeavesReceiver(t *testing.T) {
	m := Translate(V3(1, 2, 3))
	orig := m
	if _, err := m.Inverse(); err != nil {
		t.Fatal(err)
	}
	if m != orig {
		t.Errorf("Inverse modified receiver: %v", m)
	}
}

func TestInverseSingular(t *testing.T) {
	t.Run("mat2", func(t *testing.T) {
		_, err := Mat2{1, 2, 2, 4}.Inverse()
		if !errors.Is(err, ErrSingular) {
			t.Errorf("err = %v, want ErrSingular", err)
		}
	})
	t.Run("mat3 repeated row", func(t *testing.T) {
		m := Mat3FromRows(V3(1, 2, 3), V3(4, 5, 6), V3(1, 2, 3))
		_, err := m.Inverse()
		if !errors.Is(err, ErrSingular) {
			t.Errorf("err = %v, want ErrSingular", err)
		}
	})
	t.Run("mat4 zero", func(t *testing.T) {
		_, err := Mat4{}.Inverse()
		if !errors.Is(err, ErrSingular) {
			t.Errorf("err = %v, want ErrSingular", err)
		}
	})
}

func TestMat3Inverse(t *testing.T) {
	m := Mat3FromRows(V3(2, 0, 1), V3(1, 3, 0), V3(0, 1, 4))
	inv, err := m.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	p := m.Mul(inv)
	id := Identity3()
	for i := range p {
		if math.Abs(p[i]-id[i]) > 1e-9 {
			t.Fatalf("M * M^-1 = %v, want identity", p)
		}
	}

	// Solving m*x = b through the inverse.
	b := V3(3, 4, 5)
	x := inv.MulVec(b)
	if got := m.MulVec(x); !approx(got.X, b.X) || !approx(got.Y, b.Y) || !approx(got.Z, b.Z) {
		t.Errorf("m * (m^-1 * b) = %v, want %v", got, b)
	}
}

func TestMat2Inverse(t *testing.T) {
	m := Mat2{4, 2, 7, 6} // rows (4 7) (2 6)
	inv, err := m.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	want := Mat2{0.6, -0.2, -0.7, 0.4}
	for i := range want {
		if !approx(inv[i], want[i]) {
			t.Fatalf("Inverse() = %v, want %v", inv, want)
		}
	}
}

func TestRowsAndColumns(t *testing.T) {
	m := Mat3FromRows(V3(1, 2, 3), V3(4, 5, 6), V3(7, 8, 9))
	if got := m.Row(1); got != V3(4, 5, 6) {
		t.Errorf("Row(1) = %v", got)
	}
	if got := m.Col(2); got != V3(3, 6, 9) {
		t.Errorf("Col(2) = %v", got)
	}
	if got := m.Get(0, 2); got != 3 {
		t.Errorf("Get(0, 2) = %v", got)
	}
	if got := m.Transpose().Row(0); got != V3(1, 4, 7) {
		t.Errorf("Transpose().Row(0) = %v", got)
	}

	m.SwapRows(0, 2)
	if m.Row(0) != V3(7, 8, 9) || m.Row(2) != V3(1, 2, 3) {
		t.Errorf("SwapRows: %v", m)
	}
	m.ScaleRow(1, 2)
	if m.Row(1) != V3(8, 10, 12) {
		t.Errorf("ScaleRow: %v", m.Row(1))
	}
	m.AddScaledRow(0, 2, -7)
	if m.Row(0) != V3(0, -6, -12) {
		t.Errorf("AddScaledRow: %v", m.Row(0))
	}
}

func TestMatrixArithmetic(t *testing.T) {
	a := Diagonal3(2)
	b := Identity3()
	if got := a.Add(b); got != Diagonal3(3) {
		t.Errorf("Add = %v", got)
	}
	if got := b.MulScalar(5); got != Diagonal3(5) {
		t.Errorf("MulScalar = %v", got)
	}
	if got := Identity().Row(0); got != V4(1, 0, 0, 0) {
		t.Errorf("Identity().Row(0) = %v", got)
	}
	v := V4(1, 2, 3, 1)
	if got := Diagonal4(2).MulVec4(v); got != V4(2, 4, 6, 2) {
		t.Errorf("MulVec4 = %v", got)
	}
}

func TestViewport(t *testing.T) {
	vp := Viewport(0, 0, 100, 50, 255)
	tests := []struct {
		name string
		ndc  Vec3
		want Vec3
	}{
		{"top left near", V3(-1, 1, 1), V3(0, 0, 255)},
		{"bottom right far", V3(1, -1, -1), V3(100, 50, 0)},
		{"center", V3(0, 0, 0), V3(50, 25, 127.5)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := vp.MulVec3(tc.ndc)
			if !approx(got.X, tc.want.X) || !approx(got.Y, tc.want.Y) || !approx(got.Z, tc.want.Z) {
				t.Errorf("Viewport(%v) = %v, want %v", tc.ndc, got, tc.want)
			}
		})
	}
}

func TestBuilders(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"RotateX quarter turn takes Y to Z", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"RotateX quarter turn takes Z to -Y", RotateX(math.Pi / 2), V3(0, 0, 1), V3(0, -1, 0)},
		{"RotateY quarter turn takes Z to X", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"RotateZ quarter turn takes X to Y", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
		{"RotateZ half turn", RotateZ(math.Pi), V3(1, 2, 3), V3(-1, -2, 3)},
		{"Rotate about Z matches RotateZ", Rotate(V3(0, 0, 2), math.Pi/2), V3(1, 0, 0), V3(0, 1, 0)},
		{"Orthographic near corner", Orthographic(-2, 2, -1, 1, 1, 3), V3(2, 1, -1), V3(1, 1, -1)},
		{"Orthographic far corner", Orthographic(-2, 2, -1, 1, 1, 3), V3(-2, -1, -3), V3(-1, -1, 1)},
		{"Orthographic off-centre box", Orthographic(0, 4, 0, 2, 0, 10), V3(2, 1, -5), V3(0, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3(tc.in)
			if !approx(got.X, tc.want.X) || !approx(got.Y, tc.want.Y) || !approx(got.Z, tc.want.Z) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLerp(t *testing.T) {
	a, b := V3(0, -2, 4), V3(2, 2, 8)
	tests := []struct {
		t    float64
		want Vec3
	}{
		{0, a},
		{1, b},
		{0.5, V3(1, 0, 6)},
		{2, V3(4, 6, 12)},
	}
	for _, tc := range tests {
		if got := a.Lerp(b, tc.t); got != tc.want {
			t.Errorf("Vec3 Lerp(%v) = %v, want %v", tc.t, got, tc.want)
		}
		a4, b4 := a.Extend(), V4(b.X, b.Y, b.Z, 3)
		want4 := V4(tc.want.X, tc.want.Y, tc.want.Z, 1+2*tc.t)
		if got := a4.Lerp(b4, tc.t); got != want4 {
			t.Errorf("Vec4 Lerp(%v) = %v, want %v", tc.t, got, want4)
		}
	}
}

func TestProjection(t *testing.T) {
	p := Projection(5)
	got := p.MulVec4(V4(1, 1, 0, 1))
	if got.W != 1 {
		t.Errorf("point at origin plane: w = %v, want 1", got.W)
	}
	got = p.MulVec4(V4(1, 1, 2.5, 1))
	if !approx(got.W, 0.5) {
		t.Errorf("nearer point: w = %v, want 0.5", got.W)
	}
	if Projection(0) != Identity() {
		t.Error("Projection(0) should be the identity")
	}
}

func TestNormalize(t *testing.T) {
	vectors := []Vec3{
		V3(1, 0, 0),
		V3(3, 4, 0),
		V3(-2, 5, 7),
		V3(1e-3, -1e-3, 2e-3),
		V3(1e6, 2e6, -3e6),
	}
	for _, v := range vectors {
		n := v.Normalize()
		if math.Abs(n.Len()-1) > 1e-12 {
			t.Errorf("Normalize(%v).Len() = %v", v, n.Len())
		}
		if d := n.Dot(v); d <= 0 || math.Abs(d-v.Len()) > 1e-9*v.Len() {
			t.Errorf("Normalize(%v) · v = %v, want %v", v, d, v.Len())
		}
	}
}

func TestUnit(t *testing.T) {
	if _, err := Zero3().Unit(); !errors.Is(err, ErrZeroLength) {
		t.Errorf("Zero3().Unit() err = %v, want ErrZeroLength", err)
	}
	u, err := V3(0, 0, -9).Unit()
	if err != nil {
		t.Fatal(err)
	}
	if u != V3(0, 0, -1) {
		t.Errorf("Unit = %v", u)
	}
}

func TestAt(t *testing.T) {
	v := V4(1, 2, 3, 4)
	for i := range 4 {
		if v.At(i) != float64(i+1) {
			t.Errorf("Vec4.At(%d) = %v", i, v.At(i))
		}
	}
	if V3(5, 6, 7).At(2) != 7 || V2(8, 9).At(1) != 9 {
		t.Error("At returned the wrong component")
	}

	defer func() {
		if recover() == nil {
			t.Error("At(3) on Vec3 should panic")
		}
	}()
	_ = V3(1, 2, 3).At(3)
}

func TestInterpolateAtCorners(t *testing.T) {
	a, b, c := V3(1, 2, 3), V3(-4, 5, 0.5), V3(7, -8, 9)
	corners := []struct {
		w    Vec3
		want Vec3
	}{
		{V3(1, 0, 0), a},
		{V3(0, 1, 0), b},
		{V3(0, 0, 1), c},
	}
	for _, tc := range corners {
		if got := a.Interpolate(tc.w, b, c); got != tc.want {
			t.Errorf("Interpolate(%v) = %v, want %v", tc.w, got, tc.want)
		}
	}

	ta, tb, tc := V2(0.1, 0.2), V2(0.3, 0.4), V2(0.5, 0.6)
	if got := ta.Interpolate(V3(0, 1, 0), tb, tc); got != tb {
		t.Errorf("Vec2 Interpolate = %v, want %v", got, tb)
	}
	h := V4(1, 2, 3, 4)
	if got := h.Interpolate(V3(1, 0, 0), V4(0, 0, 0, 0), V4(9, 9, 9, 9)); got != h {
		t.Errorf("Vec4 Interpolate = %v, want %v", got, h)
	}
}

func TestBarycentric(t *testing.T) {
	a, b, c := V2(0, 0), V2(10, 0), V2(0, 10)
	tests := []struct {
		name string
		p    Vec2
		want Vec3
	}{
		{"vertex 0", a, V3(1, 0, 0)},
		{"vertex 1", b, V3(0, 1, 0)},
		{"vertex 2", c, V3(0, 0, 1)},
		{"edge midpoint", V2(5, 0), V3(0.5, 0.5, 0)},
		{"interior", V2(2, 3), V3(0.5, 0.2, 0.3)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Barycentric(a, b, c, tc.p)
			if !approx(got.X, tc.want.X) || !approx(got.Y, tc.want.Y) || !approx(got.Z, tc.want.Z) {
				t.Errorf("Barycentric(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	t.Run("outside", func(t *testing.T) {
		got := Barycentric(a, b, c, V2(-1, -1))
		if got.X >= 0 && got.Y >= 0 && got.Z >= 0 {
			t.Errorf("outside point got all non-negative weights %v", got)
		}
	})

	t.Run("degenerate", func(t *testing.T) {
		got := Barycentric(a, V2(5, 0), V2(10, 0), V2(3, 0))
		if got.X >= 0 {
			t.Errorf("degenerate triangle weights = %v, want a negative component", got)
		}
	})
}

package zoom

import "golang.org/x/image/math/f64"

// Transform is a 2D affine transform:
//
//	| a c tx |
//	| b d ty |
type Transform struct {
	a, b, c, d, tx, ty float64
}

func NewTransformTranspose(a, c, tx, b, d, ty float64) Transform {
	return Transform{a, b, c, d, tx, ty}
}

func NewTransformTranslate(translate Vector) Transform {
	return NewTransformTranspose(
		1, 0, translate.X,
		0, 1, translate.Y,
	)
}

func NewTransformScale(scaleX, scaleY float64) Transform {
	return NewTransformTranspose(
		scaleX, 0, 0,
		0, scaleY, 0,
	)
}

func (t Transform) Inverse() Transform {
	inv_det := 1.0 / (t.a*t.d - t.c*t.b)
	return NewTransformTranspose(
		t.d*inv_det, -t.c*inv_det, (t.c*t.ty-t.tx*t.d)*inv_det,
		-t.b*inv_det, t.a*inv_det, (t.tx*t.b-t.a*t.ty)*inv_det,
	)
}

// Mult returns t∘t2: t2 is applied first.
func (t Transform) Mult(t2 Transform) Transform {
	return NewTransformTranspose(
		t.a*t2.a+t.c*t2.b, t.a*t2.c+t.c*t2.d, t.a*t2.tx+t.c*t2.ty+t.tx,
		t.b*t2.a+t.d*t2.b, t.b*t2.c+t.d*t2.d, t.b*t2.tx+t.d*t2.ty+t.ty,
	)
}

func (t Transform) Point(p Vector) Vector {
	return Vector{X: t.a*p.X + t.c*p.Y + t.tx, Y: t.b*p.X + t.d*p.Y + t.ty}
}

// Aff3 converts t into the row-major matrix x/image/draw expects.
func (t Transform) Aff3() f64.Aff3 {
	return f64.Aff3{
		t.a, t.c, t.tx,
		t.b, t.d, t.ty,
	}
}

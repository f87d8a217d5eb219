package geom

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerate is returned when no projective transform maps one
// quadrilateral onto the other, either because three of the points are
// collinear or because the resulting linear system is singular.
var ErrDegenerate = errors.New("geom: degenerate control points")

// Projection is a 3x3 homogeneous transform stored in row-major order.
// The zero value is not a valid transform, use IdentityProjection.
type Projection struct {
	m [9]float64
}

// IdentityProjection returns the identity transform.
func IdentityProjection() Projection {
	return Projection{m: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// ScaleProjection returns a transform scaling by sx and sy.
func ScaleProjection(sx, sy float64) Projection {
	return Projection{m: [9]float64{sx, 0, 0, 0, sy, 0, 0, 0, 1}}
}

// TranslateProjection returns a transform moving points by tx and ty.
func TranslateProjection(tx, ty float64) Projection {
	return Projection{m: [9]float64{1, 0, tx, 0, 1, ty, 0, 0, 1}}
}

// ProjectionFromControlPoints fits the projective transform mapping every
// point of from onto the matching point of to.
func ProjectionFromControlPoints(from, to ControlPoints[float64]) (Projection, error) {
	if from.IsIrregular() || to.IsIrregular() {
		return Projection{}, ErrDegenerate
	}
	if hasCollinear(from) || hasCollinear(to) {
		return Projection{}, ErrDegenerate
	}

	src, dst := from.Points(), to.Points()

	// h33 is fixed to 1, leaving eight unknowns,
	// two equations for each point correspondence.
	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		a.SetRow(2*i, []float64{x, y, 1, 0, 0, 0, -u * x, -u * y})
		a.SetRow(2*i+1, []float64{0, 0, 0, x, y, 1, -v * x, -v * y})
		b.SetVec(2*i, u)
		b.SetVec(2*i+1, v)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil {
		return Projection{}, ErrDegenerate
	}

	var p Projection
	for i := 0; i < 8; i++ {
		v := h.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Projection{}, ErrDegenerate
		}
		p.m[i] = v
	}
	p.m[8] = 1

	return p, nil
}

// Matrix returns the coefficients in row-major order.
func (p Projection) Matrix() [9]float64 {
	return p.m
}

// Mul returns the composition p∘q, which applies q first.
func (p Projection) Mul(q Projection) Projection {
	var r Projection
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += p.m[row*3+k] * q.m[k*3+col]
			}
			r.m[row*3+col] = sum
		}
	}
	return r
}

// ApplyXY maps the point (x, y).
func (p Projection) ApplyXY(x, y float64) (float64, float64) {
	m := &p.m
	w := m[6]*x + m[7]*y + m[8]
	return (m[0]*x + m[1]*y + m[2]) / w, (m[3]*x + m[4]*y + m[5]) / w
}

// Apply maps pt.
func (p Projection) Apply(pt Point[float64]) Point[float64] {
	x, y := p.ApplyXY(pt.X, pt.Y)
	return Point[float64]{X: x, Y: y}
}

// Invert returns the inverse transform. It reports false when
// the matrix is singular.
func (p Projection) Invert() (Projection, bool) {
	m := &p.m
	adj := [9]float64{
		m[4]*m[8] - m[5]*m[7],
		m[2]*m[7] - m[1]*m[8],
		m[1]*m[5] - m[2]*m[4],
		m[5]*m[6] - m[3]*m[8],
		m[0]*m[8] - m[2]*m[6],
		m[2]*m[3] - m[0]*m[5],
		m[3]*m[7] - m[4]*m[6],
		m[1]*m[6] - m[0]*m[7],
		m[0]*m[4] - m[1]*m[3],
	}
	det := m[0]*adj[0] + m[1]*adj[3] + m[2]*adj[6]
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Projection{}, false
	}

	var inv Projection
	for i, v := range adj {
		inv.m[i] = v / det
	}
	return inv, true
}

// hasCollinear reports whether any three of the points lie on a line
// or any two of them coincide.
func hasCollinear(c ControlPoints[float64]) bool {
	pts := c.Points()
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			for k := j + 1; k < 4; k++ {
				ab := pts[j].Sub(pts[i])
				ac := pts[k].Sub(pts[i])
				area := ab.X*ac.Y - ab.Y*ac.X
				norm := math.Hypot(ab.X, ab.Y) * math.Hypot(ac.X, ac.Y)
				if norm == 0 || math.Abs(area) <= 1e-10*norm {
					return true
				}
			}
		}
	}
	return false
}

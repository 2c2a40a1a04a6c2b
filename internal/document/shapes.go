package document

import (
	"math"
	"sort"

	"github.com/signintech/gopdf"

	"github.com/pwnholic/pdfdemo/internal/document/svgpath"
)

type Point struct {
	X, Y float64
}

type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

const circleSegments = 72

// affine maps (x, y) to (a*x + c*y + e, b*x + d*y + f).
type affine struct {
	a, b, c, d, e, f float64
}

var identity = affine{a: 1, d: 1}

func (m affine) apply(p Point) Point {
	return Point{
		X: m.a*p.X + m.c*p.Y + m.e,
		Y: m.b*p.X + m.d*p.Y + m.f,
	}
}

// multiply returns the transform that applies n first, then m.
func (m affine) multiply(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

// Polygon fills the closed polygon through pts with the current fill colour.
func (d *Document) Polygon(pts []Point, rule FillRule) {
	if !d.usable() || len(pts) < 3 {
		return
	}
	mapped := make([]Point, len(pts))
	for i, p := range pts {
		mapped[i] = d.ctm.apply(p)
	}

	d.pdf.SetFillColor(d.fill.r, d.fill.g, d.fill.b)
	if rule == EvenOdd {
		for _, trap := range evenOddTrapezoids(mapped) {
			d.pdf.Polygon(toGopdf(trap), "F")
		}
	} else {
		d.pdf.Polygon(toGopdf(mapped), "F")
	}
	d.record(Op{Kind: OpShape, X: mapped[0].X, Y: mapped[0].Y})
}

// Triangle is a convenience for a three-point Polygon.
func (d *Document) Triangle(a, b, c Point) {
	d.Polygon([]Point{a, b, c}, NonZero)
}

// Rect fills an axis-aligned rectangle given by its top-left corner.
func (d *Document) Rect(x, y, w, h float64) {
	d.Polygon([]Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}, NonZero)
}

// Circle fills a circle approximated by a regular polygon.
func (d *Document) Circle(cx, cy, r float64) {
	pts := make([]Point, circleSegments)
	for i := range pts {
		theta := 2 * math.Pi * float64(i) / circleSegments
		pts[i] = Point{cx + r*math.Cos(theta), cy + r*math.Sin(theta)}
	}
	d.Polygon(pts, NonZero)
}

// Path fills every subpath of an SVG path data string.
func (d *Document) Path(data string, rule FillRule) {
	if !d.usable() {
		return
	}
	p, err := svgpath.Parse(data)
	if err != nil {
		d.fail(err)
		return
	}
	polys, err := p.Polygons()
	if err != nil {
		d.fail(err)
		return
	}
	for _, poly := range polys {
		pts := make([]Point, len(poly))
		for i, pt := range poly {
			pts[i] = Point{pt.X, pt.Y}
		}
		d.Polygon(pts, rule)
	}
}

// line strokes a segment in the current fill colour.
func (d *Document) line(x1, y1, x2, y2, width float64) {
	d.pdf.SetStrokeColor(d.fill.r, d.fill.g, d.fill.b)
	d.pdf.SetLineWidth(width)
	d.pdf.Line(x1, y1, x2, y2)
}

func toGopdf(pts []Point) []gopdf.Point {
	out := make([]gopdf.Point, len(pts))
	for i, p := range pts {
		out[i] = gopdf.Point{X: p.X, Y: p.Y}
	}
	return out
}

type edge struct {
	p, q Point
}

func (e edge) xAt(y float64) float64 {
	t := (y - e.p.Y) / (e.q.Y - e.p.Y)
	return e.p.X + t*(e.q.X-e.p.X)
}

// evenOddTrapezoids splits a possibly self-intersecting polygon into
// horizontal slabs and keeps the spans between alternate edge crossings.
// gopdf only emits the nonzero fill operator, so this is how the even-odd
// rule reaches the page.
func evenOddTrapezoids(pts []Point) [][]Point {
	edges := make([]edge, 0, len(pts))
	ys := make([]float64, 0, len(pts)*2)
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		ys = append(ys, p.Y)
		if p.Y != q.Y {
			edges = append(edges, edge{p, q})
		}
	}
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			if y, ok := intersectY(edges[i], edges[j]); ok {
				ys = append(ys, y)
			}
		}
	}
	sort.Float64s(ys)

	const eps = 1e-9
	var traps [][]Point
	for i := 0; i+1 < len(ys); i++ {
		y0, y1 := ys[i], ys[i+1]
		if y1-y0 < eps {
			continue
		}
		mid := (y0 + y1) / 2

		type crossing struct{ top, mid, bottom float64 }
		var xs []crossing
		for _, e := range edges {
			lo, hi := math.Min(e.p.Y, e.q.Y), math.Max(e.p.Y, e.q.Y)
			if mid <= lo || mid >= hi {
				continue
			}
			xs = append(xs, crossing{e.xAt(y0), e.xAt(mid), e.xAt(y1)})
		}
		sort.Slice(xs, func(a, b int) bool { return xs[a].mid < xs[b].mid })

		for k := 0; k+1 < len(xs); k += 2 {
			l, r := xs[k], xs[k+1]
			traps = append(traps, []Point{
				{l.top, y0}, {r.top, y0}, {r.bottom, y1}, {l.bottom, y1},
			})
		}
	}
	return traps
}

// intersectY returns the y of the proper intersection of two segments.
func intersectY(a, b edge) (float64, bool) {
	rx, ry := a.q.X-a.p.X, a.q.Y-a.p.Y
	sx, sy := b.q.X-b.p.X, b.q.Y-b.p.Y
	den := rx*sy - ry*sx
	if den == 0 {
		return 0, false
	}
	qpx, qpy := b.p.X-a.p.X, b.p.Y-a.p.Y
	t := (qpx*sy - qpy*sx) / den
	u := (qpx*ry - qpy*rx) / den
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return 0, false
	}
	return a.p.Y + t*ry, true
}

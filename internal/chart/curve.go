package chart

// Point is a position in surface units, y growing downward.
type Point struct {
	X, Y float64
}

// Segment is one step of a path. Cubic segments carry two control points;
// straight segments only To.
type Segment struct {
	C1, C2 Point
	To     Point
	Cubic  bool
}

// Curve turns an ordered point list into a start point and the segments that
// connect it to the remaining points.
type Curve interface {
	Segments(points []Point) (start Point, segs []Segment)
}

// Linear joins points with straight lines.
type Linear struct{}

func (Linear) Segments(points []Point) (Point, []Segment) {
	if len(points) == 0 {
		return Point{}, nil
	}
	segs := make([]Segment, 0, len(points)-1)
	for _, p := range points[1:] {
		segs = append(segs, Segment{To: p})
	}
	return points[0], segs
}

// Cardinal is a cardinal spline through every point. Tension 0 gives the
// Catmull-Rom-like default; 1 gives straight lines.
type Cardinal struct {
	Tension float64
}

func (c Cardinal) Segments(points []Point) (Point, []Segment) {
	switch len(points) {
	case 0:
		return Point{}, nil
	case 1:
		return points[0], nil
	case 2:
		return points[0], []Segment{{To: points[1]}}
	}

	k := (1 - c.Tension) / 6
	last := len(points) - 1
	segs := make([]Segment, 0, last)
	for i := 0; i < last; i++ {
		p1, p2 := points[i], points[i+1]

		// The end points reuse their neighbour, flattening the tangent.
		c1 := p1
		if i > 0 {
			p0 := points[i-1]
			c1 = Point{X: p1.X + k*(p2.X-p0.X), Y: p1.Y + k*(p2.Y-p0.Y)}
		}
		c2 := p2
		if i+1 < last {
			p3 := points[i+2]
			c2 = Point{X: p2.X - k*(p3.X-p1.X), Y: p2.Y - k*(p3.Y-p1.Y)}
		}

		segs = append(segs, Segment{C1: c1, C2: c2, To: p2, Cubic: true})
	}
	return points[0], segs
}

// Package svg implements chart.Surface as a standalone SVG document.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	svgo "github.com/ajstarks/svgo"

	"github.com/i474232898/weather-outlook/internal/chart"
)

const (
	tickSize    = 6
	tickPadding = 3
	tickFont    = 10
)

// Surface buffers drawn elements and writes them as one <svg> element whose
// id is the surface identifier.
type Surface struct {
	mu sync.Mutex

	id     string
	width  int
	height int

	frame    chart.Frame
	hasFrame bool
	body     bytes.Buffer
	canvas   *svgo.SVG
}

// New returns a surface of the given container size. A zero size behaves as
// an unmounted surface: it measures as unavailable.
func New(id string, width, height int) *Surface {
	s := &Surface{id: id, width: width, height: height}
	s.canvas = svgo.New(&s.body)
	return s
}

func (s *Surface) ID() string {
	return s.id
}

func (s *Surface) Measure() (chart.Size, bool) {
	if s.width <= 0 || s.height <= 0 {
		return chart.Size{}, false
	}
	return chart.Size{Width: float64(s.width), Height: float64(s.height)}, true
}

func (s *Surface) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body.Reset()
	s.frame = chart.Frame{}
	s.hasFrame = false
}

func (s *Surface) SetFrame(f chart.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = f
	s.hasFrame = true
}

func (s *Surface) DrawPath(p chart.Path) {
	if len(p.Points) == 0 {
		return
	}
	curve := p.Curve
	if curve == nil {
		curve = chart.Linear{}
	}
	start, segs := curve.Segments(p.Points)

	var d strings.Builder
	fmt.Fprintf(&d, "M%s,%s", num(start.X), num(start.Y))
	for _, seg := range segs {
		if seg.Cubic {
			fmt.Fprintf(&d, "C%s,%s,%s,%s,%s,%s",
				num(seg.C1.X), num(seg.C1.Y), num(seg.C2.X), num(seg.C2.Y), num(seg.To.X), num(seg.To.Y))
			continue
		}
		fmt.Fprintf(&d, "L%s,%s", num(seg.To.X), num(seg.To.Y))
	}

	attrs := append(classAttr(p.Class), `fill="none"`)
	attrs = append(attrs, strokeAttrs(p.Stroke)...)
	attrs = append(attrs, s.clipAttr(p.Clip)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Path(d.String(), attrs...)
}

func (s *Surface) DrawPoint(m chart.Marker) {
	attrs := append(classAttr(m.Class), fmt.Sprintf(`fill="%s"`, m.Fill))
	attrs = append(attrs, s.clipAttr(m.Clip)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Circle(px(m.Center.X), px(m.Center.Y), max(px(m.Radius), 1), attrs...)
}

func (s *Surface) DrawLine(l chart.Line) {
	attrs := append(strokeAttrs(l.Stroke), s.clipAttr(l.Clip)...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Line(px(l.From.X), px(l.From.Y), px(l.To.X), px(l.To.Y), attrs...)
}

// DrawAxis draws a bottom axis: the domain line, one tick per interval and
// its label under the tick.
func (s *Surface) DrawAxis(a chart.Axis) {
	format := a.Format
	if format == nil {
		format = chart.FormatHour12
	}
	r0, r1 := a.Scale.Range[0], a.Scale.Range[1]

	s.mu.Lock()
	defer s.mu.Unlock()

	s.canvas.Gtransform(fmt.Sprintf("translate(0,%s)", num(a.Offset)))
	s.canvas.Group(classAttr(a.Class)...)
	s.canvas.Path(fmt.Sprintf("M%s,%dV0H%sV%d", num(r0), tickSize, num(r1), tickSize),
		`class="domain"`, `fill="none"`, `stroke="currentColor"`)
	for _, t := range a.Scale.Ticks(a.Every) {
		x := px(a.Scale.Map(t))
		s.canvas.Line(x, 0, x, tickSize, `class="tick"`, `stroke="currentColor"`)
		s.canvas.Text(x, tickSize+tickPadding+tickFont, format(t),
			`text-anchor="middle"`, fmt.Sprintf(`font-size="%d"`, tickFont), `fill="currentColor"`)
	}
	s.canvas.Gend()
	s.canvas.Gend()
}

func (s *Surface) DrawText(t chart.Text) {
	attrs := classAttr(t.Class)
	if t.Anchor != "" {
		attrs = append(attrs, fmt.Sprintf(`text-anchor="%s"`, t.Anchor))
	}
	if t.FontSize > 0 {
		attrs = append(attrs, fmt.Sprintf(`font-size="%spx"`, num(t.FontSize)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.canvas.Text(px(t.At.X), px(t.At.Y), t.Value, attrs...)
}

// WriteTo writes the complete SVG document.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cw := &countingWriter{w: w}
	doc := svgo.New(cw)
	doc.Start(max(s.width, 0), max(s.height, 0), fmt.Sprintf(`id="%s"`, s.id))
	if s.hasFrame {
		doc.Def()
		doc.ClipPath(fmt.Sprintf(`id="%s"`, s.clipID()))
		doc.Rect(0, 0, px(s.frame.Width), px(s.frame.Height))
		doc.ClipEnd()
		doc.DefEnd()
		doc.Gtransform(fmt.Sprintf("translate(%s,%s)", num(s.frame.Left), num(s.frame.Top)))
		cw.Write(s.body.Bytes())
		doc.Gend()
	}
	doc.End()
	return cw.n, cw.err
}

// String returns the document, for embedding in JSON responses.
func (s *Surface) String() string {
	var b bytes.Buffer
	s.WriteTo(&b)
	return b.String()
}

func (s *Surface) clipID() string {
	return "clip-" + s.id
}

func (s *Surface) clipAttr(clip bool) []string {
	if !clip {
		return nil
	}
	return []string{fmt.Sprintf(`clip-path="url(#%s)"`, s.clipID())}
}

func classAttr(class string) []string {
	if class == "" {
		return nil
	}
	return []string{fmt.Sprintf(`class="%s"`, class)}
}

func strokeAttrs(st chart.Stroke) []string {
	attrs := []string{fmt.Sprintf(`stroke="%s"`, st.Color)}
	if st.Width > 0 {
		attrs = append(attrs, fmt.Sprintf(`stroke-width="%s"`, num(st.Width)))
	}
	if len(st.Dash) > 0 {
		parts := make([]string, len(st.Dash))
		for i, d := range st.Dash {
			parts[i] = num(d)
		}
		attrs = append(attrs, fmt.Sprintf(`stroke-dasharray="%s"`, strings.Join(parts, ",")))
	}
	return attrs
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func px(v float64) int {
	return int(math.Round(v))
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwnholic/pdfdemo/internal/assets"
)

func newDoc(t *testing.T, opts Options) *Document {
	t.Helper()
	d, err := New(opts)
	require.NoError(t, err)
	return d
}

func render(t *testing.T, d *Document) []byte {
	t.Helper()
	var buf bytes.Buffer
	err := d.End().Each(context.Background(), func(chunk []byte) error {
		buf.Write(chunk)
		return nil
	})
	require.NoError(t, err)
	return buf.Bytes()
}

func TestNewPageSizes(t *testing.T) {
	letter := newDoc(t, Options{})
	assert.Equal(t, 612.0, letter.PageWidth())
	assert.Equal(t, 792.0, letter.PageHeight())
	assert.Equal(t, 1, letter.PageCount())
	assert.Equal(t, 72.0, letter.X())

	a4 := newDoc(t, Options{Size: "a4", Margin: 40})
	assert.InDelta(t, 595, a4.PageWidth(), 0.5)
	assert.Equal(t, Margins{40, 40, 40, 40}, a4.Margins())

	_, err := New(Options{Size: "B5"})
	assert.ErrorIs(t, err, ErrUnknownSize)
}

func TestUnknownFontIsSticky(t *testing.T) {
	d := newDoc(t, Options{})
	d.Font("Roboto")
	require.ErrorIs(t, d.Err(), ErrUnknownFont)

	d.TextAt("ignored", 10, 10, TextOptions{})
	assert.Empty(t, d.Texts())

	_, err := io.ReadAll(d.End())
	assert.ErrorIs(t, err, ErrUnknownFont)
}

func TestRegisterFontOverrides(t *testing.T) {
	d := newDoc(t, Options{})
	mono, err := assets.Load(assets.FontMono)
	require.NoError(t, err)

	assert.False(t, d.HasFont("Roboto"))
	require.NoError(t, d.RegisterFont("Roboto", mono))
	require.NoError(t, d.RegisterFont("Helvetica", mono))
	assert.True(t, d.HasFont("Roboto"))

	d.Font("Roboto")
	d.TextAt("mono", 100, 100, TextOptions{})
	d.Font("Helvetica")
	d.TextAt("still mono", 100, 120, TextOptions{})
	require.NoError(t, d.Err())
	assert.Equal(t, []string{"mono", "still mono"}, d.Texts())
}

func TestFillColor(t *testing.T) {
	for in, want := range map[string]rgb{
		"#FF3300": {0xFF, 0x33, 0x00},
		"#6600ff": {0x66, 0x00, 0xFF},
		"#abc":    {0xAA, 0xBB, 0xCC},
		"Red":     {255, 0, 0},
		" black ": {0, 0, 0},
	} {
		got, err := parseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	d := newDoc(t, Options{})
	d.FillColor("#GG0000")
	assert.ErrorIs(t, d.Err(), ErrInvalidColor)
}

func TestSaveRestore(t *testing.T) {
	d := newDoc(t, Options{})
	d.Save()
	d.FillColor("red")
	d.Scale(0.6)
	d.Translate(470, 130)
	got := d.ctm.apply(Point{250, 75})
	assert.InDelta(t, 432, got.X, 1e-9)
	assert.InDelta(t, 123, got.Y, 1e-9)
	d.Restore()
	assert.Equal(t, identity, d.ctm)
	assert.Equal(t, rgb{}, d.fill)
	require.NoError(t, d.Err())

	d.Restore()
	assert.ErrorIs(t, d.Err(), ErrRestoreNotSaved)
}

func TestMoveDownUsesLineHeight(t *testing.T) {
	d := newDoc(t, Options{})
	d.FontSize(10)
	d.MoveTo(50, 100)
	d.MoveDown(3)
	assert.InDelta(t, 100+3*10*lineHeightFactor, d.Y(), 1e-9)
}

func TestShapesRecorded(t *testing.T) {
	d := newDoc(t, Options{})
	d.FillColor("#FF3300")
	d.Triangle(Point{100, 150}, Point{100, 250}, Point{200, 250})
	d.Circle(280, 200, 50)
	d.Rect(40, 40, 100, 20)
	d.Path("M 250,75 L 323,301 131,161 369,161 177,301 z", EvenOdd)
	require.NoError(t, d.Err())

	shapes := 0
	for _, op := range d.Transcript() {
		if op.Kind == OpShape {
			shapes++
		}
	}
	assert.Equal(t, 4, shapes)

	d.Path("M 1,2 Q 3,4", NonZero)
	assert.Error(t, d.Err())
}

func TestEvenOddStarLeavesCentreEmpty(t *testing.T) {
	star := []Point{{250, 75}, {323, 301}, {131, 161}, {369, 161}, {177, 301}}
	traps := evenOddTrapezoids(star)
	require.NotEmpty(t, traps)

	// The star's centre lies inside the inner pentagon, which even-odd leaves unfilled.
	centre := Point{250, 200}
	for _, trap := range traps {
		assert.False(t, insideConvex(trap, centre), "trapezoid %v covers the centre", trap)
	}

	// A tip is filled.
	tip := Point{250, 100}
	covered := false
	for _, trap := range traps {
		covered = covered || insideConvex(trap, tip)
	}
	assert.True(t, covered)
}

func insideConvex(poly []Point, p Point) bool {
	sign := 0.0
	for i, a := range poly {
		b := poly[(i+1)%len(poly)]
		cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
		if cross == 0 {
			continue
		}
		if sign == 0 {
			sign = cross
		} else if (cross > 0) != (sign > 0) {
			return false
		}
	}
	return true
}

func TestTextWrapsAndBreaksPages(t *testing.T) {
	d := newDoc(t, Options{})
	d.FontSize(12)
	para := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	d.Text(para, TextOptions{})
	require.NoError(t, d.Err())

	assert.Greater(t, d.PageCount(), 1)
	for _, op := range d.Transcript() {
		if op.Kind == OpText {
			assert.LessOrEqual(t, op.X+op.W, d.PageWidth()-d.Margins().Right+0.01)
			assert.LessOrEqual(t, op.Y+op.H, d.PageHeight()-d.Margins().Bottom+0.01)
		}
	}
	assert.Equal(t, d.Margins().Left, d.X())
}

func TestTextColumnsHeightAndEllipsis(t *testing.T) {
	d := newDoc(t, Options{})
	d.FontSize(13)
	d.MoveTo(100, 300)
	long := strings.Repeat("Vestibulum ante ipsum primis in faucibus orci luctus. ", 60)
	d.Text(long, TextOptions{Width: 412, Height: 300, Align: AlignJustify, Indent: 30, Columns: 2, Ellipsis: true})
	require.NoError(t, d.Err())

	texts := d.Texts()
	require.NotEmpty(t, texts)
	assert.True(t, strings.HasSuffix(texts[len(texts)-1], ellipsisMark))

	colWidth := (412.0 - defaultColumnGap) / 2
	var xs []float64
	for _, op := range d.Transcript() {
		if op.Kind != OpText {
			continue
		}
		assert.LessOrEqual(t, op.Y+op.H, 300+300+0.01)
		if len(xs) == 0 || xs[len(xs)-1] != op.X {
			xs = append(xs, op.X)
		}
	}
	assert.Contains(t, xs, 130.0)
	assert.Contains(t, xs, 100+colWidth+defaultColumnGap)
	assert.Equal(t, 1, d.PageCount())
	assert.LessOrEqual(t, d.Y(), 600.0)
}

func TestTextLinkAndUnderline(t *testing.T) {
	d := newDoc(t, Options{Size: SizeA4})
	d.FontSize(14)
	d.FillColor("#0B0C0C")
	d.TextAt("https://reallylonglinktosomething.com/123456789", 64, 114, TextOptions{Link: "https://google.com", Underline: true})
	require.NoError(t, d.Err())

	var link *Op
	for _, op := range d.Transcript() {
		if op.Kind == OpLink {
			link = &op
		}
	}
	require.NotNil(t, link)
	assert.Equal(t, "https://google.com", link.Text)
	assert.Equal(t, 64.0, link.X)
	assert.Greater(t, link.W, 0.0)
}

func TestImagePlacement(t *testing.T) {
	d := newDoc(t, Options{})
	bee, err := assets.Load(assets.BeeImage)
	require.NoError(t, err)

	y := d.Y()
	require.NoError(t, d.Image(bee, 0, 0))
	assert.Equal(t, y+80, d.Y())

	jpg, err := assets.Load(assets.TestImage)
	require.NoError(t, err)
	require.NoError(t, d.ImageAt(jpg, d.PageWidth()-160, 90, 96, 36))

	err = d.ImageAt([]byte("not an image"), 0, 0, 10, 10)
	assert.Error(t, err)
	err = d.Image(nil, 0, 0)
	assert.ErrorIs(t, err, ErrEmptyImage)
	assert.NoError(t, d.Err(), "asset errors must not poison the document")

	images := 0
	for _, op := range d.Transcript() {
		if op.Kind == OpImage {
			images++
		}
	}
	assert.Equal(t, 2, images)
}

func TestFitSize(t *testing.T) {
	w, h := fitSize(200, 100, 0, 0)
	assert.Equal(t, [2]float64{200, 100}, [2]float64{w, h})
	w, h = fitSize(200, 100, 50, 0)
	assert.Equal(t, [2]float64{50, 25}, [2]float64{w, h})
	w, h = fitSize(200, 100, 0, 10)
	assert.Equal(t, [2]float64{20, 10}, [2]float64{w, h})
	w, h = fitSize(200, 100, 96, 36)
	assert.Equal(t, [2]float64{96, 36}, [2]float64{w, h})
}

func TestStreamSingleTerminal(t *testing.T) {
	d := newDoc(t, Options{})
	d.TextAt("Hello", 100, 80, TextOptions{})
	s := d.End()
	assert.Same(t, s, d.End())

	chunks := 0
	var buf bytes.Buffer
	err := s.Each(context.Background(), func(chunk []byte) error {
		chunks++
		assert.LessOrEqual(t, len(chunk), ChunkSize)
		buf.Write(chunk)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Err())
	assert.Positive(t, chunks)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	d.TextAt("too late", 100, 100, TextOptions{})
	assert.ErrorIs(t, d.Err(), ErrEnded)

	err = d.End().Each(context.Background(), func([]byte) error {
		t.Fatal("drained stream delivered data again")
		return nil
	})
	assert.ErrorIs(t, err, ErrStreamConsumed)
}

func TestStreamCallbackError(t *testing.T) {
	d := newDoc(t, Options{})
	boom := errors.New("sink full")
	err := d.End().Each(context.Background(), func([]byte) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestStreamCancelled(t *testing.T) {
	d := newDoc(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := d.End().Each(ctx, func([]byte) error { return nil })
	// The writer may finish before the cancellation lands.
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestIndependentDocuments(t *testing.T) {
	a := newDoc(t, Options{})
	b := newDoc(t, Options{Size: SizeA4})
	a.TextAt("first", 10, 10, TextOptions{})
	b.TextAt("second", 10, 10, TextOptions{})

	outA, outB := render(t, a), render(t, b)
	assert.NotEqual(t, outA, outB)
	assert.Equal(t, []string{"first"}, a.Texts())
	assert.Equal(t, []string{"second"}, b.Texts())
}

// Package document wraps gopdf with a cursor-based builder handle: a
// document keeps its current font, size, fill colour, transform and
// position between calls, so construction code reads as a sequence of
// drawing statements.
//
// Errors are sticky. The first failing call is recorded, every later call
// becomes a no-op, and Err reports the recorded error. Image is the
// exception: asset problems are returned to the caller without poisoning
// the handle, so callers can recover per placement.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/signintech/gopdf"

	"github.com/pwnholic/pdfdemo/internal/assets"
)

var (
	ErrUnknownFont     = errors.New("unknown font")
	ErrUnknownSize     = errors.New("unknown page size")
	ErrInvalidColor    = errors.New("invalid color")
	ErrRestoreNotSaved = errors.New("restore without matching save")
	ErrEnded           = errors.New("document already ended")
	ErrStreamConsumed  = errors.New("document stream already consumed")
)

const (
	SizeLetter = "LETTER"
	SizeA4     = "A4"
)

const (
	DefaultFont     = "Helvetica"
	DefaultFontSize = 12
	DefaultMargin   = 72

	// lineHeightFactor approximates ascender minus descender plus gap
	// for the bundled fonts.
	lineHeightFactor = 1.16
)

var pageSizes = map[string]*gopdf.Rect{
	SizeLetter: gopdf.PageSizeLetter,
	SizeA4:     gopdf.PageSizeA4,
}

// standardFonts are registered on first use, so documents always know the
// classic PDF base font names.
var standardFonts = map[string]string{
	"Helvetica":      assets.FontRegular,
	"Helvetica-Bold": assets.FontBold,
	"Courier":        assets.FontMono,
	"Courier-Bold":   assets.FontMonoBold,
}

type Options struct {
	// Size is SizeLetter (default) or SizeA4.
	Size   string
	Margin float64
}

type Margins struct {
	Top, Left, Bottom, Right float64
}

type graphicsState struct {
	ctm  affine
	fill rgb
}

type Document struct {
	pdf      *gopdf.GoPdf
	pageSize gopdf.Rect
	margins  Margins

	// fonts maps a user-facing font name to the gopdf family it was
	// registered under. Families are unique so a name can be re-registered.
	fonts    map[string]string
	families int

	font     string
	fontSize float64
	fill     rgb
	ctm      affine
	saved    []graphicsState

	x, y  float64
	pages int

	transcript []Op
	err        error
	stream     *Stream
}

func New(opts Options) (*Document, error) {
	size := opts.Size
	if size == "" {
		size = SizeLetter
	}
	rect, ok := pageSizes[strings.ToUpper(size)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", size, ErrUnknownSize)
	}
	margin := opts.Margin
	if margin <= 0 {
		margin = DefaultMargin
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{
		Unit:     gopdf.UnitPT,
		PageSize: *rect,
	})

	d := &Document{
		pdf:      pdf,
		pageSize: *rect,
		margins:  Margins{Top: margin, Left: margin, Bottom: margin, Right: margin},
		fonts:    make(map[string]string),
		font:     DefaultFont,
		fontSize: DefaultFontSize,
		ctm:      identity,
	}
	d.AddPage()
	if d.err != nil {
		return nil, d.err
	}
	return d, nil
}

// Err returns the first error recorded on the document.
func (d *Document) Err() error {
	return d.err
}

func (d *Document) fail(err error) error {
	if d.err == nil {
		d.err = err
	}
	return err
}

// usable reports whether the document still accepts drawing calls.
func (d *Document) usable() bool {
	if d.stream != nil {
		d.fail(ErrEnded)
		return false
	}
	return d.err == nil
}

func (d *Document) PageWidth() float64  { return d.pageSize.W }
func (d *Document) PageHeight() float64 { return d.pageSize.H }
func (d *Document) Margins() Margins    { return d.margins }
func (d *Document) PageCount() int      { return d.pages }
func (d *Document) X() float64          { return d.x }
func (d *Document) Y() float64          { return d.y }
func (d *Document) FontName() string    { return d.font }
func (d *Document) Size() float64       { return d.fontSize }

// RegisterFont makes ttf available under name. Registering a name again
// replaces the earlier font for subsequent Font calls.
func (d *Document) RegisterFont(name string, ttf []byte) error {
	if !d.usable() {
		return d.err
	}
	d.families++
	family := fmt.Sprintf("f%d", d.families)
	if err := d.pdf.AddTTFFontData(family, ttf); err != nil {
		return d.fail(fmt.Errorf("register font %s: %w", name, err))
	}
	d.fonts[name] = family
	return nil
}

// HasFont reports whether name is registered or is one of the standard
// font names.
func (d *Document) HasFont(name string) bool {
	if _, ok := d.fonts[name]; ok {
		return true
	}
	_, ok := standardFonts[name]
	return ok
}

func (d *Document) family(name string) (string, error) {
	if family, ok := d.fonts[name]; ok {
		return family, nil
	}
	asset, ok := standardFonts[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownFont)
	}
	ttf, err := assets.Load(asset)
	if err != nil {
		return "", fmt.Errorf("load standard font %s: %w", name, err)
	}
	if err := d.RegisterFont(name, ttf); err != nil {
		return "", err
	}
	return d.fonts[name], nil
}

// Font selects a registered font for subsequent text.
func (d *Document) Font(name string) {
	if !d.usable() {
		return
	}
	if _, err := d.family(name); err != nil {
		d.fail(err)
		return
	}
	d.font = name
}

func (d *Document) FontSize(size float64) {
	if !d.usable() {
		return
	}
	if size <= 0 {
		d.fail(fmt.Errorf("font size %v must be positive", size))
		return
	}
	d.fontSize = size
}

// applyFont pushes the current font and size into gopdf.
func (d *Document) applyFont() error {
	family, err := d.family(d.font)
	if err != nil {
		return d.fail(err)
	}
	if err := d.pdf.SetFont(family, "", d.fontSize); err != nil {
		return d.fail(fmt.Errorf("set font %s: %w", d.font, err))
	}
	return nil
}

// FillColor sets the colour used for filled shapes and text. It accepts
// #rgb, #rrggbb and a handful of CSS colour names.
func (d *Document) FillColor(c string) {
	if !d.usable() {
		return
	}
	parsed, err := parseColor(c)
	if err != nil {
		d.fail(err)
		return
	}
	d.fill = parsed
}

func (d *Document) LineHeight() float64 {
	return d.fontSize * lineHeightFactor
}

// MoveTo positions the text cursor.
func (d *Document) MoveTo(x, y float64) {
	if !d.usable() {
		return
	}
	d.x, d.y = x, y
}

// MoveDown advances the cursor by lines of the current line height.
func (d *Document) MoveDown(lines float64) {
	if !d.usable() {
		return
	}
	d.y += lines * d.LineHeight()
}

// AddPage starts a new page and resets the cursor to the top-left margin.
// Font, size and colour carry over.
func (d *Document) AddPage() {
	if !d.usable() {
		return
	}
	d.pdf.AddPage()
	d.pages++
	d.x, d.y = d.margins.Left, d.margins.Top
	d.record(Op{Kind: OpPage})
}

func (d *Document) contentBottom() float64 {
	return d.pageSize.H - d.margins.Bottom
}

// Save pushes the transform and fill colour.
func (d *Document) Save() {
	if !d.usable() {
		return
	}
	d.saved = append(d.saved, graphicsState{ctm: d.ctm, fill: d.fill})
}

// Restore pops the state pushed by the matching Save.
func (d *Document) Restore() {
	if !d.usable() {
		return
	}
	if len(d.saved) == 0 {
		d.fail(ErrRestoreNotSaved)
		return
	}
	top := d.saved[len(d.saved)-1]
	d.saved = d.saved[:len(d.saved)-1]
	d.ctm, d.fill = top.ctm, top.fill
}

// Scale and Translate compose onto the current transform. The transform
// applies to vector shapes only; text and images use page coordinates.
func (d *Document) Scale(s float64) {
	if !d.usable() {
		return
	}
	d.ctm = d.ctm.multiply(affine{a: s, d: s})
}

func (d *Document) Translate(tx, ty float64) {
	if !d.usable() {
		return
	}
	d.ctm = d.ctm.multiply(affine{a: 1, d: 1, e: tx, f: ty})
}

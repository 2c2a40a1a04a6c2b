package document

import (
	"fmt"
	"math"
	"strings"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
	AlignJustify
)

const (
	defaultColumnGap = 18
	ellipsisMark     = "…"
)

// TextOptions control how Text flows a string. Zero values mean: full
// remaining line width, unbounded height with page breaks, left aligned,
// one column.
type TextOptions struct {
	Width     float64
	Height    float64
	Align     Align
	Indent    float64
	Columns   int
	ColumnGap float64
	Ellipsis  bool
	Link      string
	Underline bool
}

type textLine struct {
	words  []string
	indent float64
	// last marks the final line of a paragraph, which is never justified.
	last bool
}

func (l textLine) text() string {
	return strings.Join(l.words, " ")
}

// TextAt moves the cursor to (x, y) and flows s from there.
func (d *Document) TextAt(s string, x, y float64, opts TextOptions) {
	if !d.usable() {
		return
	}
	d.x, d.y = x, y
	d.Text(s, opts)
}

// Text flows s from the cursor, wrapping at the available width. The
// cursor ends below the last line, at the x it started from.
func (d *Document) Text(s string, opts TextOptions) {
	if !d.usable() {
		return
	}
	if err := d.applyFont(); err != nil {
		return
	}

	width := opts.Width
	if width <= 0 {
		width = d.pageSize.W - d.margins.Right - d.x
	}
	cols := max(opts.Columns, 1)
	gap := opts.ColumnGap
	if gap <= 0 && cols > 1 {
		gap = defaultColumnGap
	}
	colWidth := (width - gap*float64(cols-1)) / float64(cols)
	if colWidth <= 0 {
		d.fail(fmt.Errorf("text at x=%.1f has no room: column width %.1f", d.x, colWidth))
		return
	}

	lines, err := d.wrap(s, colWidth, opts.Indent)
	if err != nil {
		d.fail(err)
		return
	}

	d.pdf.SetTextColor(d.fill.r, d.fill.g, d.fill.b)
	lh := d.LineHeight()
	startX, startY := d.x, d.y

	if opts.Height <= 0 && cols == 1 {
		y := startY
		for _, ln := range lines {
			if y+lh > d.contentBottom() && y > d.margins.Top {
				d.AddPage()
				y = d.y
			}
			if err := d.drawLine(ln, startX, y, colWidth, opts); err != nil {
				return
			}
			y += lh
		}
		d.x, d.y = startX, y
		return
	}

	var perColumn int
	if opts.Height > 0 {
		perColumn = max(int(math.Floor(opts.Height/lh+1e-9)), 1)
		if capacity := perColumn * cols; len(lines) > capacity {
			lines = lines[:capacity]
			if opts.Ellipsis {
				lines[capacity-1] = d.withEllipsis(lines[capacity-1], colWidth)
			}
		}
	} else {
		perColumn = max((len(lines)+cols-1)/cols, 1)
	}

	for i, ln := range lines {
		col, row := i/perColumn, i%perColumn
		x := startX + float64(col)*(colWidth+gap)
		y := startY + float64(row)*lh
		if err := d.drawLine(ln, x, y, colWidth, opts); err != nil {
			return
		}
	}
	d.x, d.y = startX, startY+float64(min(len(lines), perColumn))*lh
}

func (d *Document) measure(s string) (float64, error) {
	w, err := d.pdf.MeasureTextWidth(s)
	if err != nil {
		return 0, fmt.Errorf("measure %q: %w", s, err)
	}
	return w, nil
}

// wrap breaks s into lines no wider than width. Each paragraph's first
// line is shortened by indent.
func (d *Document) wrap(s string, width, indent float64) ([]textLine, error) {
	var lines []textLine
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, textLine{last: true})
			continue
		}

		cur := textLine{indent: indent}
		for len(words) > 0 {
			w := words[0]
			avail := width - cur.indent
			candidate := w
			if len(cur.words) > 0 {
				candidate = cur.text() + " " + w
			}
			cw, err := d.measure(candidate)
			if err != nil {
				return nil, err
			}
			switch {
			case cw <= avail:
				cur.words = append(cur.words, w)
				words = words[1:]
			case len(cur.words) > 0:
				lines = append(lines, cur)
				cur = textLine{}
			default:
				head, tail, err := d.splitWord(w, avail)
				if err != nil {
					return nil, err
				}
				if tail == "" {
					cur.words = append(cur.words, w)
					words = words[1:]
					continue
				}
				lines = append(lines, textLine{words: []string{head}, indent: cur.indent})
				cur = textLine{}
				words[0] = tail
			}
		}
		cur.last = true
		lines = append(lines, cur)
	}
	return lines, nil
}

// splitWord cuts a word that cannot fit on a line by itself. At least one
// rune always goes on the first part; a single rune is never split.
func (d *Document) splitWord(w string, avail float64) (string, string, error) {
	runes := []rune(w)
	if len(runes) < 2 {
		return w, "", nil
	}
	n := 1
	for n < len(runes) {
		cw, err := d.measure(string(runes[:n+1]))
		if err != nil {
			return "", "", err
		}
		if cw > avail {
			break
		}
		n++
	}
	if n >= len(runes) {
		n = len(runes) - 1
	}
	return string(runes[:n]), string(runes[n:]), nil
}

func (d *Document) withEllipsis(ln textLine, colWidth float64) textLine {
	ln.last = true
	avail := colWidth - ln.indent
	for len(ln.words) > 0 {
		w, err := d.measure(ln.text() + ellipsisMark)
		if err == nil && w <= avail {
			break
		}
		ln.words = ln.words[:len(ln.words)-1]
	}
	if len(ln.words) == 0 {
		ln.words = []string{ellipsisMark}
		return ln
	}
	ln.words[len(ln.words)-1] += ellipsisMark
	return ln
}

func (d *Document) drawLine(ln textLine, x, y, colWidth float64, opts TextOptions) error {
	text := ln.text()
	if text == "" {
		return nil
	}
	tw, err := d.measure(text)
	if err != nil {
		return d.fail(err)
	}

	lx := x + ln.indent
	avail := colWidth - ln.indent
	switch opts.Align {
	case AlignCenter:
		lx += (avail - tw) / 2
	case AlignRight:
		lx += avail - tw
	}

	if opts.Align == AlignJustify && !ln.last && len(ln.words) > 1 {
		if err := d.drawJustified(ln.words, lx, y, avail); err != nil {
			return d.fail(err)
		}
		tw = avail
	} else {
		d.pdf.SetXY(lx, y)
		if err := d.pdf.Cell(nil, text); err != nil {
			return d.fail(fmt.Errorf("draw text %q: %w", text, err))
		}
	}
	d.record(Op{Kind: OpText, X: lx, Y: y, W: tw, H: d.LineHeight(), Font: d.font, Size: d.fontSize, Text: text})

	if opts.Underline {
		uy := y + d.fontSize*0.98
		d.line(lx, uy, lx+tw, uy, math.Max(d.fontSize/18, 0.5))
	}
	if opts.Link != "" {
		d.pdf.AddExternalLink(opts.Link, lx, y, tw, d.LineHeight())
		d.record(Op{Kind: OpLink, X: lx, Y: y, W: tw, H: d.LineHeight(), Text: opts.Link})
	}
	return nil
}

// drawJustified spreads words so the line spans exactly avail.
func (d *Document) drawJustified(words []string, x, y, avail float64) error {
	widths := make([]float64, len(words))
	total := 0.0
	for i, w := range words {
		ww, err := d.measure(w)
		if err != nil {
			return err
		}
		widths[i] = ww
		total += ww
	}
	space := (avail - total) / float64(len(words)-1)
	for i, w := range words {
		d.pdf.SetXY(x, y)
		if err := d.pdf.Cell(nil, w); err != nil {
			return fmt.Errorf("draw text %q: %w", w, err)
		}
		x += widths[i] + space
	}
	return nil
}

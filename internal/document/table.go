package document

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrTableShape = errors.New("malformed table")

// BoldPrefix marks a cell value to be drawn in the bold variant of the row
// font. The prefix itself is not drawn.
const BoldPrefix = "bold:"

// Column describes one column of the object form of a table.
type Column struct {
	Label    string
	Property string
	Width    float64
}

type RowOptions struct {
	FontSize float64
}

// Data is one row of the object form, keyed by Column.Property.
type Data struct {
	Values  map[string]string
	Options RowOptions
}

// Table accepts two shapes: Headers with positional Rows, or Columns with
// property-keyed Datas. When Columns is set, Headers and Rows are ignored.
type Table struct {
	Title    string
	Subtitle string

	Headers []string
	Rows    [][]string

	Columns []Column
	Datas   []Data
}

// CellRect is the area of one cell, handed to the PrepareRow hook.
type CellRect struct {
	X, Y, W, H float64
}

type TableOptions struct {
	// X is the left edge. Zero or less means the cursor x, so a table at
	// the page edge is drawn by moving the cursor to x 0 first.
	X float64
	// Width is the total width used when neither Columns nor ColumnsSize
	// carry widths; zero means up to the right margin.
	Width       float64
	ColumnsSize []float64
	HideHeader  bool
	Padding     float64

	PrepareHeader func(d *Document)
	PrepareRow    func(d *Document, row []string, column, rowIndex int, cell CellRect)
}

const (
	defaultCellPadding = 3
	titleFontSize      = 12
	subtitleFontSize   = 9
)

type tableRow struct {
	cells   []string
	options RowOptions
}

type tableLayout struct {
	labels []string
	widths []float64
	rows   []tableRow
}

func (t Table) layout(opts TableOptions, defaultWidth float64) (tableLayout, error) {
	var l tableLayout
	if len(t.Columns) > 0 {
		for _, c := range t.Columns {
			l.labels = append(l.labels, c.Label)
			l.widths = append(l.widths, c.Width)
		}
		for _, data := range t.Datas {
			row := tableRow{options: data.Options}
			for _, c := range t.Columns {
				row.cells = append(row.cells, data.Values[c.Property])
			}
			l.rows = append(l.rows, row)
		}
	} else {
		l.labels = t.Headers
		for i, cells := range t.Rows {
			if len(cells) > len(t.Headers) {
				return l, fmt.Errorf("row %d has %d cells for %d headers: %w", i, len(cells), len(t.Headers), ErrTableShape)
			}
			row := make([]string, len(t.Headers))
			copy(row, cells)
			l.rows = append(l.rows, tableRow{cells: row})
		}
	}

	n := len(l.labels)
	if n == 0 {
		return l, fmt.Errorf("no columns: %w", ErrTableShape)
	}

	switch {
	case len(opts.ColumnsSize) > 0:
		if len(opts.ColumnsSize) != n {
			return l, fmt.Errorf("%d column sizes for %d columns: %w", len(opts.ColumnsSize), n, ErrTableShape)
		}
		l.widths = append([]float64(nil), opts.ColumnsSize...)
	case len(l.widths) == n && allPositive(l.widths):
	default:
		l.widths = make([]float64, n)
		for i := range l.widths {
			l.widths[i] = defaultWidth / float64(n)
		}
	}
	for i, w := range l.widths {
		if w <= 0 {
			return l, fmt.Errorf("column %d has width %v: %w", i, w, ErrTableShape)
		}
	}
	return l, nil
}

func allPositive(ws []float64) bool {
	for _, w := range ws {
		if w <= 0 {
			return false
		}
	}
	return true
}

// Table draws t from the cursor down, breaking pages between rows. The
// cursor ends below the last row at the table's left edge, and the font
// and size in effect before the call are restored. Errors are recorded on
// the document and also returned.
func (d *Document) Table(t Table, opts TableOptions) error {
	if !d.usable() {
		return d.err
	}
	font, size := d.font, d.fontSize
	defer func() { d.font, d.fontSize = font, size }()

	x := opts.X
	if x <= 0 {
		x = d.x
	}
	defaultWidth := opts.Width
	if defaultWidth <= 0 {
		defaultWidth = d.pageSize.W - d.margins.Right - x
	}
	l, err := t.layout(opts, defaultWidth)
	if err != nil {
		return d.fail(err)
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = defaultCellPadding
	}
	totalWidth := 0.0
	for _, w := range l.widths {
		totalWidth += w
	}

	d.x = x
	if t.Title != "" {
		d.Font("Helvetica-Bold")
		d.FontSize(titleFontSize)
		d.Text(t.Title, TextOptions{Width: totalWidth})
	}
	if t.Subtitle != "" {
		d.Font(DefaultFont)
		d.FontSize(subtitleFontSize)
		d.Text(t.Subtitle, TextOptions{Width: totalWidth})
	}
	if d.err != nil {
		return d.err
	}
	d.y += padding

	drawHeader := func() error {
		if opts.HideHeader {
			return nil
		}
		if opts.PrepareHeader != nil {
			opts.PrepareHeader(d)
		} else {
			d.Font("Helvetica-Bold")
			d.FontSize(8)
		}
		if d.err != nil {
			return d.err
		}
		cells := make([]tableCell, len(l.labels))
		for i, label := range l.labels {
			cells[i] = tableCell{text: label, font: d.font, size: d.fontSize}
		}
		return d.tableRow(cells, x, l.widths, padding, totalWidth, 1)
	}

	if err := drawHeader(); err != nil {
		return err
	}

	for ri, row := range l.rows {
		cells := make([]tableCell, len(row.cells))
		cx := x
		for ci, raw := range row.cells {
			rect := CellRect{X: cx, Y: d.y, W: l.widths[ci]}
			cx += l.widths[ci]
			if opts.PrepareRow != nil {
				opts.PrepareRow(d, row.cells, ci, ri, rect)
			} else {
				d.Font(DefaultFont)
				d.FontSize(8)
			}
			if d.err != nil {
				return d.err
			}
			cells[ci] = d.styleCell(raw, row.options)
		}

		height, err := d.rowHeight(cells, l.widths, padding)
		if err != nil {
			return d.fail(err)
		}
		if d.y+height > d.contentBottom() && d.y > d.margins.Top {
			d.AddPage()
			if err := drawHeader(); err != nil {
				return err
			}
		}
		if err := d.tableRow(cells, x, l.widths, padding, totalWidth, 0.5); err != nil {
			return err
		}
	}

	d.x = x
	return d.err
}

type tableCell struct {
	text string
	font string
	size float64
}

// styleCell applies the bold: prefix and the row font size on top of the
// font chosen by the prepare hook.
func (d *Document) styleCell(raw string, ro RowOptions) tableCell {
	c := tableCell{text: raw, font: d.font, size: d.fontSize}
	if rest, ok := strings.CutPrefix(raw, BoldPrefix); ok {
		c.text = rest
		if bold := boldVariant(c.font); d.HasFont(bold) {
			c.font = bold
		}
	}
	if ro.FontSize > 0 {
		c.size = ro.FontSize
	}
	return c
}

func boldVariant(font string) string {
	if strings.HasSuffix(font, "-Bold") {
		return font
	}
	return font + "-Bold"
}

func (d *Document) rowHeight(cells []tableCell, widths []float64, padding float64) (float64, error) {
	height := 0.0
	for i, c := range cells {
		d.font, d.fontSize = c.font, c.size
		if err := d.applyFont(); err != nil {
			return 0, err
		}
		lines, err := d.wrap(c.text, widths[i]-2*padding, 0)
		if err != nil {
			return 0, err
		}
		height = math.Max(height, float64(len(lines))*d.LineHeight())
	}
	return height + 2*padding, nil
}

// tableRow draws one row of cells at the cursor, a divider under it, and
// moves the cursor below the divider.
func (d *Document) tableRow(cells []tableCell, x float64, widths []float64, padding, totalWidth, divider float64) error {
	height, err := d.rowHeight(cells, widths, padding)
	if err != nil {
		return d.fail(err)
	}
	top := d.y
	cx := x
	for i, c := range cells {
		d.font, d.fontSize = c.font, c.size
		d.x, d.y = cx+padding, top+padding
		d.Text(c.text, TextOptions{Width: widths[i] - 2*padding, Height: height})
		if d.err != nil {
			return d.err
		}
		cx += widths[i]
	}
	d.line(x, top+height, x+totalWidth, top+height, divider)
	d.x, d.y = x, top+height+divider
	return nil
}

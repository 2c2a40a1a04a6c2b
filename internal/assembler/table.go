package assembler

import (
	"context"

	"github.com/pwnholic/pdfdemo/internal/document"
)

const (
	demoLink     = "https://google.com"
	demoLinkText = "https://reallylonglinktosomething.com/123456789"
)

// demoTable is the two-column table drawn twice on the table document.
func demoTable(pageWidth float64) document.Table {
	firstColumnWidth := pageWidth * 0.4
	return document.Table{
		Columns: []document.Column{
			{Property: "name", Width: firstColumnWidth},
			{Property: "description", Width: pageWidth - firstColumnWidth},
		},
		Datas: []document.Data{
			{Values: map[string]string{
				"name":        "Name 1",
				"description": "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Aenean mattis ante in laoreet egestas. ",
			}},
			{
				Values: map[string]string{
					"name":        document.BoldPrefix + "Name 2",
					"description": document.BoldPrefix + "Lorem ipsum dolor.",
				},
				Options: document.RowOptions{FontSize: 10},
			},
			{Values: map[string]string{
				"name":        "Name 3",
				"description": "Lorem ipsum dolor.",
			}},
		},
	}
}

func demoTableOptions() document.TableOptions {
	return document.TableOptions{
		X:          40,
		HideHeader: true,
		PrepareHeader: func(d *document.Document) {
			d.Font("Helvetica-Bold")
			d.FontSize(8)
		},
		PrepareRow: func(d *document.Document, _ []string, _, _ int, _ document.CellRect) {
			d.Font("Helvetica")
			d.FontSize(8)
		},
	}
}

// CreateTablePdf builds the A4 document with a title banner, an underlined
// link, the lazy image and the demo table rendered twice.
func CreateTablePdf(ctx context.Context, p Platform) (*document.Document, error) {
	prefetch(ctx, p)

	doc, err := newDocument(p, document.Options{Size: document.SizeA4})
	if err != nil {
		return nil, err
	}
	pageWidth := doc.PageWidth() - 80

	doc.FillColor("#EDECE5")
	doc.Rect(40, 40, pageWidth, 126)
	doc.FontSize(24)
	doc.FillColor("black")
	doc.TextAt("Title", 64, 76, document.TextOptions{})

	doc.FontSize(14)
	doc.FillColor("#0B0C0C")
	doc.TextAt(demoLinkText, 64, 114, document.TextOptions{Link: demoLink, Underline: true})

	placeLazyImage(doc, p)

	doc.MoveDown(3)
	table := demoTable(pageWidth)
	if err := doc.Table(table, demoTableOptions()); err != nil {
		return nil, err
	}

	doc.MoveDown(2)
	doc.FontSize(19)
	doc.FillColor("black")
	doc.Text("Next Title", document.TextOptions{})
	doc.MoveDown(1)
	if err := doc.Table(table, demoTableOptions()); err != nil {
		return nil, err
	}
	return finish(doc)
}

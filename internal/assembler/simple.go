package assembler

import (
	"context"
	"fmt"

	"github.com/pwnholic/pdfdemo/internal/document"
)

const starPath = "M 250,75 L 323,301 131,161 369,161 177,301 z"

const lorem = "Lorem ipsum dolor sit amet, consectetur adipiscing elit. Etiam in suscipit purus. Vestibulum ante ipsum primis in faucibus orci luctus et ultrices posuere cubilia Curae; Vivamus nec hendrerit felis. Morbi aliquam facilisis risus eu lacinia. Sed eu leo in turpis fringilla hendrerit. Ut nec accumsan nisl. Suspendisse rhoncus nisl posuere tortor tempus et dapibus elit porta. Cras leo neque, elementum a rhoncus ut, vestibulum non nibh. Phasellus pretium justo turpis. Etiam vulputate, odio vitae tincidunt ultricies, eros odio dapibus nisi, ut tincidunt lacus arcu eu elit. Aenean velit erat, vehicula eget lacinia ut, dignissim non tellus. Aliquam nec lacus mi, sed vestibulum nunc. Suspendisse potenti. Curabitur vitae sem turpis. Vestibulum sed neque eget dolor dapibus porttitor at sit amet sem. Fusce a turpis lorem. Vestibulum ante ipsum primis in faucibus orci luctus et ultrices posuere cubilia Curae;\n" +
	"Mauris at ante tellus. Vestibulum a metus lectus. Praesent tempor purus a lacus blandit eget gravida ante hendrerit. Cras et eros metus. Sed commodo malesuada eros, vitae interdum augue semper quis. Fusce id magna nunc. Curabitur sollicitudin placerat semper. Cras et mi neque, a dignissim risus. Nulla venenatis porta lacus, vel rhoncus lectus tempor vitae. Duis sagittis venenatis rutrum. Curabitur tempor massa tortor."

// CreateSimplePdf builds the three-page Letter document: vector graphics
// and wrapped text, an eagerly placed image, and a lazily placed one.
func CreateSimplePdf(ctx context.Context, p Platform) (*document.Document, error) {
	prefetch(ctx, p)

	doc, err := newDocument(p, document.Options{Size: document.SizeLetter})
	if err != nil {
		return nil, err
	}

	doc.FontSize(25)
	doc.TextAt("Here is some vector graphics...", 100, 80, document.TextOptions{})

	doc.Save()
	doc.FillColor("#FF3300")
	doc.Triangle(document.Point{X: 100, Y: 150}, document.Point{X: 100, Y: 250}, document.Point{X: 200, Y: 250})
	doc.FillColor("#6600FF")
	doc.Circle(280, 200, 50)
	doc.Scale(0.6)
	doc.Translate(470, 130)
	doc.FillColor("red")
	doc.Path(starPath, document.EvenOdd)
	doc.Restore()

	doc.Font("Roboto")
	doc.TextAt("And here is some wrapped text...", 100, 300, document.TextOptions{})
	doc.FontSize(13)
	doc.MoveDown(1)
	doc.Text(lorem, document.TextOptions{
		Width:    412,
		Align:    document.AlignJustify,
		Indent:   30,
		Columns:  2,
		Height:   300,
		Ellipsis: true,
	})

	doc.AddPage()
	doc.FontSize(25)
	doc.Font("Courier")
	doc.Text("And an image...", document.TextOptions{})
	if err := doc.Err(); err != nil {
		return nil, err
	}
	if err := p.PlaceEagerImage(doc); err != nil {
		return nil, fmt.Errorf("failed to place image: %w", err)
	}

	doc.Font("Courier-Bold")
	doc.MoveDown(5)
	doc.Text("Finish...", document.TextOptions{})

	doc.AddPage()
	doc.Font("Roboto")
	doc.FontSize(18)
	doc.Text("Not yet. Lets try to show an image lazy loaded", document.TextOptions{})

	placeLazyImage(doc, p)
	return finish(doc)
}

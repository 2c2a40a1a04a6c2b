package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/signintech/gopdf"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("empty image data")

// prepareImage checks imgBytes and returns a gopdf holder plus the pixel
// size. Formats gopdf cannot embed directly are re-encoded as JPEG.
func prepareImage(imgBytes []byte) (gopdf.ImageHolder, int, int, error) {
	if len(imgBytes) == 0 {
		return nil, 0, 0, ErrEmptyImage
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, 0, 0, fmt.Errorf("invalid image dimensions: %dx%d", cfg.Width, cfg.Height)
	}

	if format != "jpeg" && format != "png" {
		img, _, err := image.Decode(bytes.NewReader(imgBytes))
		if err != nil {
			return nil, 0, 0, fmt.Errorf("failed to decode %s image: %w", format, err)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to convert %s image to JPEG: %w", format, err)
		}
		imgBytes = buf.Bytes()
	}

	holder, err := gopdf.ImageHolderByBytes(imgBytes)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to create image holder: %w", err)
	}
	return holder, cfg.Width, cfg.Height, nil
}

// Image places an image at the cursor and moves the cursor below it. A
// zero width or height keeps the aspect ratio; both zero uses the pixel
// size, shrunk to fit the line width. An image taller than the space left
// on the page starts a new page.
//
// Problems with imgBytes are returned without poisoning the document.
func (d *Document) Image(imgBytes []byte, w, h float64) error {
	if !d.usable() {
		return d.err
	}
	holder, pw, ph, err := prepareImage(imgBytes)
	if err != nil {
		return err
	}
	w, h = fitSize(float64(pw), float64(ph), w, h)
	if avail := d.pageSize.W - d.margins.Right - d.x; w > avail && avail > 0 {
		h = h * avail / w
		w = avail
	}
	if d.y+h > d.contentBottom() && d.y > d.margins.Top {
		d.AddPage()
	}
	if err := d.placeImage(holder, d.x, d.y, w, h); err != nil {
		return err
	}
	d.y += h
	return nil
}

// ImageAt places an image with its top-left corner at (x, y) without
// moving the cursor.
func (d *Document) ImageAt(imgBytes []byte, x, y, w, h float64) error {
	if !d.usable() {
		return d.err
	}
	holder, pw, ph, err := prepareImage(imgBytes)
	if err != nil {
		return err
	}
	w, h = fitSize(float64(pw), float64(ph), w, h)
	return d.placeImage(holder, x, y, w, h)
}

func (d *Document) placeImage(holder gopdf.ImageHolder, x, y, w, h float64) error {
	if err := d.pdf.ImageByHolder(holder, x, y, &gopdf.Rect{W: w, H: h}); err != nil {
		return d.fail(fmt.Errorf("failed to add image to PDF: %w", err))
	}
	d.record(Op{Kind: OpImage, X: x, Y: y, W: w, H: h})
	return nil
}

func fitSize(pw, ph, w, h float64) (float64, float64) {
	switch {
	case w > 0 && h > 0:
		return w, h
	case w > 0:
		return w, ph * w / pw
	case h > 0:
		return pw * h / ph, h
	}
	return pw, ph
}

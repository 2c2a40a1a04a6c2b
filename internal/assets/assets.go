// Package assets holds the files bundled into the binaries: the Go font
// family and two raster images drawn at first use. Bundled files are
// addressed with the "embed:" reference prefix.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

const Prefix = "embed:"

const (
	FontRegular  = "fonts/Go-Regular.ttf"
	FontBold     = "fonts/Go-Bold.ttf"
	FontMedium   = "fonts/Go-Medium.ttf"
	FontMono     = "fonts/Go-Mono.ttf"
	FontMonoBold = "fonts/Go-Mono-Bold.ttf"

	BeeImage  = "images/bee.png"
	TestImage = "lazy-assets/test.jpeg"
)

var ErrNotBundled = errors.New("asset not bundled")

var (
	bundleOnce sync.Once
	bundle     map[string][]byte
	bundleErr  error
)

func load() {
	bundle = map[string][]byte{
		FontRegular:  goregular.TTF,
		FontBold:     gobold.TTF,
		FontMedium:   gomedium.TTF,
		FontMono:     gomono.TTF,
		FontMonoBold: gomonobold.TTF,
	}

	bee, err := encodePNG(drawBee(120, 80))
	if err != nil {
		bundleErr = fmt.Errorf("draw %s: %w", BeeImage, err)
		return
	}
	bundle[BeeImage] = bee

	test, err := encodeJPEG(drawTestCard(192, 72))
	if err != nil {
		bundleErr = fmt.Errorf("draw %s: %w", TestImage, err)
		return
	}
	bundle[TestImage] = test
}

// IsBundled reports whether ref uses the embed: prefix.
func IsBundled(ref string) bool {
	return strings.HasPrefix(ref, Prefix)
}

// Ref returns the embed: reference for a bundled name.
func Ref(name string) string {
	return Prefix + name
}

// Load returns the bytes of a bundled asset. ref may be written with or
// without the embed: prefix. The returned slice must not be modified.
func Load(ref string) ([]byte, error) {
	bundleOnce.Do(load)
	if bundleErr != nil {
		return nil, bundleErr
	}
	name := strings.TrimPrefix(ref, Prefix)
	data, ok := bundle[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrNotBundled)
	}
	return data, nil
}

// Names lists every bundled asset, sorted.
func Names() []string {
	bundleOnce.Do(load)
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	beeYellow = color.NRGBA{R: 0xF5, G: 0xC2, B: 0x18, A: 0xFF}
	beeBlack  = color.NRGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	beeWing   = color.NRGBA{R: 0xCF, G: 0xE8, B: 0xF7, A: 0xFF}
)

// drawBee paints a striped ellipse with two wings on a transparent canvas.
func drawBee(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)*0.6
	rx, ry := float64(w)*0.4, float64(h)*0.3
	wingR := float64(h) * 0.22

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			fx, fy := float64(x)+0.5, float64(y)+0.5
			for _, wx := range []float64{cx - rx*0.35, cx + rx*0.35} {
				if math.Hypot(fx-wx, fy-(cy-ry)) <= wingR {
					img.SetNRGBA(x, y, beeWing)
				}
			}
			dx, dy := (fx-cx)/rx, (fy-cy)/ry
			if dx*dx+dy*dy > 1 {
				continue
			}
			stripe := int((fx-(cx-rx))/(rx/3.5)) % 2
			if stripe == 1 {
				img.SetNRGBA(x, y, beeBlack)
			} else {
				img.SetNRGBA(x, y, beeYellow)
			}
		}
	}
	return img
}

// drawTestCard paints a horizontal gradient crossed by a dark band.
func drawTestCard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t := float64(x) / float64(w-1)
			c := color.RGBA{
				R: uint8(40 + 200*t),
				G: uint8(120 + 60*(1-t)),
				B: uint8(220 - 160*t),
				A: 0xFF,
			}
			if y > h/3 && y < 2*h/3 && x%24 < 12 {
				c = color.RGBA{R: 0x20, G: 0x20, B: 0x30, A: 0xFF}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

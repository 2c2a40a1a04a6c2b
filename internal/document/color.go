package document

import (
	"fmt"
	"strconv"
	"strings"
)

type rgb struct {
	r, g, b uint8
}

var namedColors = map[string]rgb{
	"black":  {0, 0, 0},
	"white":  {255, 255, 255},
	"red":    {255, 0, 0},
	"green":  {0, 128, 0},
	"blue":   {0, 0, 255},
	"gray":   {128, 128, 128},
	"grey":   {128, 128, 128},
	"orange": {255, 165, 0},
	"yellow": {255, 255, 0},
	"purple": {128, 0, 128},
}

func parseColor(s string) (rgb, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return rgb{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return rgb{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	return rgb{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Package svgpath parses the straight-line subset of SVG path data
// (M, L, H, V, Z and their relative forms) into polygons.
package svgpath

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	pathLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Separator", Pattern: `[\s,]+`},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Command", Pattern: `[MmLlHhVvZz]`},
	})

	pathParser = participle.MustBuild[Path](
		participle.Lexer(pathLexer),
		participle.Elide("Separator"),
	)
)

// Path is the parsed form of a path data string.
type Path struct {
	Segments []*Segment `parser:"@@*"`
}

// Segment is one command letter with its numeric arguments.
type Segment struct {
	Pos     lexer.Position `parser:""`
	Command string         `parser:"@Command"`
	Args    []float64      `parser:"@Number*"`
}

type Point struct {
	X, Y float64
}

// Parse parses path data such as "M 250,75 L 323,301 z".
func Parse(d string) (*Path, error) {
	p, err := pathParser.ParseString("", d)
	if err != nil {
		return nil, fmt.Errorf("parse path %q: %w", d, err)
	}
	return p, nil
}

// Polygons resolves the path into absolute-coordinate subpaths. Every
// subpath is treated as closed when filled, so Z only ends the current one.
func (p *Path) Polygons() ([][]Point, error) {
	var (
		polys    [][]Point
		current  []Point
		cur      Point
		start    Point
		haveMove bool
	)
	flush := func() {
		if len(current) > 0 {
			polys = append(polys, current)
		}
		current = nil
	}
	// After Z a drawing command without a moveto starts at the closed
	// subpath's start point.
	startSubpath := func() {
		if len(current) == 0 {
			current = append(current, cur)
		}
	}

	for _, seg := range p.Segments {
		rel := seg.Command[0] >= 'a'
		switch seg.Command {
		case "M", "m":
			if len(seg.Args) == 0 || len(seg.Args)%2 != 0 {
				return nil, fmt.Errorf("%s: %s needs coordinate pairs, got %d numbers", seg.Pos, seg.Command, len(seg.Args))
			}
			flush()
			for i := 0; i < len(seg.Args); i += 2 {
				pt := Point{seg.Args[i], seg.Args[i+1]}
				if rel {
					pt.X += cur.X
					pt.Y += cur.Y
				}
				if i == 0 {
					start = pt
				}
				cur = pt
				current = append(current, pt)
			}
			haveMove = true
		case "L", "l":
			if len(seg.Args) == 0 || len(seg.Args)%2 != 0 {
				return nil, fmt.Errorf("%s: %s needs coordinate pairs, got %d numbers", seg.Pos, seg.Command, len(seg.Args))
			}
			if !haveMove {
				return nil, fmt.Errorf("%s: %s before moveto", seg.Pos, seg.Command)
			}
			startSubpath()
			for i := 0; i < len(seg.Args); i += 2 {
				pt := Point{seg.Args[i], seg.Args[i+1]}
				if rel {
					pt.X += cur.X
					pt.Y += cur.Y
				}
				cur = pt
				current = append(current, pt)
			}
		case "H", "h", "V", "v":
			if len(seg.Args) == 0 {
				return nil, fmt.Errorf("%s: %s needs at least one number", seg.Pos, seg.Command)
			}
			if !haveMove {
				return nil, fmt.Errorf("%s: %s before moveto", seg.Pos, seg.Command)
			}
			startSubpath()
			horizontal := seg.Command == "H" || seg.Command == "h"
			for _, v := range seg.Args {
				switch {
				case horizontal && rel:
					cur.X += v
				case horizontal:
					cur.X = v
				case rel:
					cur.Y += v
				default:
					cur.Y = v
				}
				current = append(current, cur)
			}
		case "Z", "z":
			if len(seg.Args) != 0 {
				return nil, fmt.Errorf("%s: %s takes no arguments", seg.Pos, seg.Command)
			}
			flush()
			cur = start
		}
	}
	flush()
	return polys, nil
}

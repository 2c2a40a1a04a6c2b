package document

type OpKind int

const (
	OpPage OpKind = iota
	OpText
	OpShape
	OpImage
	OpLink
)

func (k OpKind) String() string {
	switch k {
	case OpPage:
		return "page"
	case OpText:
		return "text"
	case OpShape:
		return "shape"
	case OpImage:
		return "image"
	case OpLink:
		return "link"
	}
	return "unknown"
}

// Op is one entry of the document transcript: a readable log of what was
// drawn where. Font subsetting makes the PDF bytes opaque, so the
// transcript is what tests and debug output inspect.
type Op struct {
	Kind OpKind
	Page int
	X, Y float64
	W, H float64
	Font string
	Size float64
	Text string
}

func (d *Document) record(op Op) {
	op.Page = d.pages
	d.transcript = append(d.transcript, op)
}

// Transcript returns a copy of the recorded operations.
func (d *Document) Transcript() []Op {
	out := make([]Op, len(d.transcript))
	copy(out, d.transcript)
	return out
}

// Texts returns the text of every OpText entry in drawing order.
func (d *Document) Texts() []string {
	var out []string
	for _, op := range d.transcript {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

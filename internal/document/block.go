package document

import "strings"

// Type identifies what an OCR block represents
type Type string

const (
	TypePage  Type = "PAGE"
	TypeLine  Type = "LINE"
	TypeWord  Type = "WORD"
	TypeTable Type = "TABLE"
	TypeCell  Type = "CELL"
)

// Block is one OCR-detected unit of a document
type Block struct {
	ID       string   `json:"id"`
	Type     Type     `json:"type"`
	Text     string   `json:"text,omitempty"`
	Children []string `json:"children,omitempty"`
	// Row and Column are 1-based table coordinates for CELL blocks, 0 when unknown
	Row    int `json:"row,omitempty"`
	Column int `json:"column,omitempty"`
}

// Stream is the ordered block sequence produced by one OCR pass
type Stream []Block

// Find returns the block with the given id
func (s Stream) Find(id string) (Block, bool) {
	for _, b := range s {
		if b.ID == id {
			return b, true
		}
	}
	return Block{}, false
}

// OfType returns the blocks of type t in stream order
func (s Stream) OfType(types ...Type) []Block {
	var out []Block
	for _, b := range s {
		for _, t := range types {
			if b.Type == t {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// Has reports whether the stream contains at least one block of type t
func (s Stream) Has(t Type) bool {
	for _, b := range s {
		if b.Type == t {
			return true
		}
	}
	return false
}

// Lines returns the own text of every LINE block in stream order
func (s Stream) Lines() []string {
	lines := s.OfType(TypeLine)
	out := make([]string, len(lines))
	for i, b := range lines {
		out[i] = b.Text
	}
	return out
}

// Text resolves the text of b against this stream, see ResolveText
func (s Stream) Text(b Block) string {
	return ResolveText(b, s)
}

// ResolveText returns the block's own text if it has one, otherwise the
// space-joined resolved text of its children. Child ids that do not resolve,
// and children that resolve to nothing, are skipped.
func ResolveText(b Block, all Stream) string {
	return resolve(b, all, map[string]bool{})
}

func resolve(b Block, all Stream, visiting map[string]bool) string {
	if b.Text != "" {
		return b.Text
	}
	if len(b.Children) == 0 || visiting[b.ID] {
		return ""
	}
	visiting[b.ID] = true
	defer delete(visiting, b.ID)

	parts := make([]string, 0, len(b.Children))
	for _, id := range b.Children {
		child, ok := all.Find(id)
		if !ok {
			continue
		}
		if text := resolve(child, all, visiting); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Package prompt turns the session knowledge base into the ordered content
// blocks submitted to the model API, and owns every instruction template the
// assistant uses.
package prompt

import (
	"fmt"

	"github.com/katsu224/asistenteRRHH/pkg/knowledge"
)

// Block is one discrete unit of a model request payload: either text or
// inline binary with a media type. Shared between prompt assembly and the
// providers without circular imports.
type Block struct {
	Type      string // "text" or "image"
	Text      string // for Type == "text"
	MediaType string // MIME type, for Type == "image"
	Data      []byte // raw image bytes, for Type == "image"
}

const (
	docStartFormat = "--- START OF DOCUMENT: %s ---"
	docEnd         = "--- END OF DOCUMENT ---"
)

// TextBlock builds a plain text block.
func TextBlock(text string) Block {
	return Block{Type: "text", Text: text}
}

// ImageBlock builds an inline image block.
func ImageBlock(data []byte, mediaType string) Block {
	return Block{Type: "image", MediaType: mediaType, Data: data}
}

// Assemble serializes the knowledge base into content blocks and appends the
// task instruction as the final block. Each text item becomes one document
// block bounded by stable delimiters, in insertion order; each image item
// with a media type becomes one inline image block. Image items missing a
// media type are skipped, not rejected: assembly is pure and never fails.
func Assemble(items []knowledge.Item, instruction string) []Block {
	blocks := make([]Block, 0, len(items)+1)
	for _, item := range items {
		switch item.Kind {
		case knowledge.KindText:
			blocks = append(blocks, TextBlock(fmt.Sprintf(
				docStartFormat+"\n%s\n"+docEnd, item.Name, item.Content)))
		case knowledge.KindImage:
			if item.MediaType == "" {
				continue
			}
			blocks = append(blocks, ImageBlock(item.Data, item.MediaType))
		}
	}
	return append(blocks, TextBlock(instruction))
}

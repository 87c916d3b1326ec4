package knowledge

import "github.com/google/uuid"

// Kind distinguishes text documents from images.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// Item is a single unit of grounding context supplied by the user.
// Items are immutable once created and live for the session.
// MediaType is set if and only if Kind is KindImage.
type Item struct {
	ID        string
	Name      string
	Kind      Kind
	Content   string // text content, Kind == KindText
	Data      []byte // raw image bytes, Kind == KindImage
	MediaType string // MIME type, Kind == KindImage
}

// NewTextItem builds a text knowledge item.
func NewTextItem(name, content string) Item {
	return Item{
		ID:      uuid.NewString(),
		Name:    name,
		Kind:    KindText,
		Content: content,
	}
}

// NewImageItem builds an image knowledge item.
func NewImageItem(name string, data []byte, mediaType string) Item {
	return Item{
		ID:        uuid.NewString(),
		Name:      name,
		Kind:      KindImage,
		Data:      data,
		MediaType: mediaType,
	}
}

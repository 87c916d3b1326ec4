package chat

// Role identifies who produced a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// GeneratedImage holds decoded image bytes produced by an image action.
type GeneratedImage struct {
	Data      []byte
	MediaType string
}

// Message is one entry in the chat history. History is append-only and
// insertion order is chronological order.
//
// A model message always carries RelatedQuestionID: the id of the user
// question that originated its thread. Follow-up answers propagate the
// original question's id, never the intermediate answer's.
type Message struct {
	ID                string
	Role              Role
	Text              string
	Image             *GeneratedImage
	RelatedQuestionID string
}

// Action is a canned follow-up on a prior model answer. The controller
// switches over it exhaustively; adding a variant without handling it is a
// runtime error, not a silent fall-through.
type Action string

const (
	ActionExplain Action = "explain"
	ActionExample Action = "example"
	ActionImage   Action = "image"
)

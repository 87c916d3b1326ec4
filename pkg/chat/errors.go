package chat

import (
	"errors"

	"github.com/katsu224/asistenteRRHH/pkg/completion"
)

// Precondition errors. All are detected locally, before any provider
// contact, and abort without partial state mutation.
var (
	ErrEmptyKnowledge   = errors.New("knowledge base is empty")
	ErrBlankQuestion    = errors.New("question is blank")
	ErrBusy             = errors.New("a request is already in progress")
	ErrMessageNotFound  = errors.New("message not found")
	ErrQuestionNotFound = errors.New("original question not found")
)

// UserMessage maps an error from the controller to the Spanish text shown to
// the employee.
func UserMessage(err error) string {
	var genErr *completion.GenError
	if errors.As(err, &genErr) {
		return genErr.UserMessage
	}

	switch {
	case errors.Is(err, ErrEmptyKnowledge):
		return "Añade primero algún documento o imagen a la base de conocimiento."
	case errors.Is(err, ErrBlankQuestion):
		return "Escribe una pregunta antes de enviar."
	case errors.Is(err, ErrBusy):
		return "Espera a que termine la consulta anterior."
	case errors.Is(err, ErrMessageNotFound), errors.Is(err, ErrQuestionNotFound):
		return "No he encontrado la pregunta original de ese mensaje."
	default:
		return "Ha ocurrido un error inesperado. Inténtalo de nuevo."
	}
}

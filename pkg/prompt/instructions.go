package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxConceptChars bounds the derived visual prompt handed to the image model.
const maxConceptChars = 480

// SystemInstruction is attached to every text request. It is parameterized
// only by the bot's display name and pins the model to the supplied material
// and to Spanish.
func SystemInstruction(botName string) string {
	return fmt.Sprintf(`Eres %s, el asistente virtual de Recursos Humanos de la empresa.

Reglas:
1. Responde únicamente con la información contenida en los documentos e imágenes proporcionados.
2. Si la respuesta no aparece en ese material, dilo con amabilidad y no inventes nada.
3. Responde siempre en español, con un tono cercano y profesional.`, botName)
}

// QuestionInstruction is the instruction block for a plain question: the
// question itself, verbatim.
func QuestionInstruction(question string) string {
	return question
}

// ExplainInstruction asks the model to restate a prior answer differently,
// grounded in the same material.
func ExplainInstruction(question, priorAnswer string) string {
	return fmt.Sprintf(`A la pregunta «%s» ya respondiste:

«%s»

Explica de nuevo esa respuesta de otra manera: usa una analogía o palabras más sencillas, apoyándote solo en el material proporcionado.`, question, priorAnswer)
}

// ExampleInstruction asks for a concrete example tied to a prior answer.
func ExampleInstruction(question, priorAnswer string) string {
	return fmt.Sprintf(`A la pregunta «%s» ya respondiste:

«%s»

Da un ejemplo concreto y práctico que ilustre esa respuesta, apoyándote solo en el material proporcionado.`, question, priorAnswer)
}

// ConceptInstruction asks the model to turn a question/answer pair into a
// short visual description for the image model. It carries no knowledge
// blocks; the answer already holds the grounded content.
func ConceptInstruction(question, answer string) string {
	return fmt.Sprintf(`Pregunta: %s
Respuesta: %s

Describe en una sola frase, de no más de 25 palabras, una imagen sencilla y amable que ilustre esta respuesta. Devuelve solo la descripción, sin comillas ni texto adicional.`, question, answer)
}

// BoundConcept trims whitespace and caps the derived visual prompt, cutting
// on a rune boundary so multi-byte characters are not split.
func BoundConcept(concept string) string {
	concept = strings.TrimSpace(concept)
	if utf8.RuneCountInString(concept) <= maxConceptChars {
		return concept
	}
	runes := []rune(concept)
	return string(runes[:maxConceptChars])
}

package completion

// Kind classifies a generation failure.
type Kind string

const (
	// KindTransport covers any API or network failure.
	KindTransport Kind = "transport"
	// KindNoImage means image generation succeeded at the transport level
	// but returned no image payload.
	KindNoImage Kind = "no_image"
)

// GenError is the uniform failure outcome of every completion call. Raw
// transport errors never escape this package: callers get a GenError with a
// user-facing Spanish message and the wrapped cause.
type GenError struct {
	Kind        Kind
	UserMessage string
	Err         error
}

func (e *GenError) Error() string {
	if e.Err != nil {
		return string(e.Kind) + ": " + e.Err.Error()
	}
	return string(e.Kind)
}

func (e *GenError) Unwrap() error { return e.Err }

const (
	msgTransport = "No he podido contactar con el asistente. Inténtalo de nuevo en unos momentos."
	msgNoImage   = "El asistente no ha podido generar una imagen esta vez. Vuelve a intentarlo."
)

func transportError(err error) *GenError {
	return &GenError{Kind: KindTransport, UserMessage: msgTransport, Err: err}
}

func noImageError(err error) *GenError {
	return &GenError{Kind: KindNoImage, UserMessage: msgNoImage, Err: err}
}

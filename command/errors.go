package command

// ErrorType represents parse-failure categories. The category determines how
// enclosing modifiers and the dispatcher treat a failure, and drives
// suggestion logic for unknown flags and child aliases.
type ErrorType string

const (
	ErrorTypeOutOfTokens      ErrorType = "out_of_tokens"
	ErrorTypeTokenize         ErrorType = "tokenize"
	ErrorTypeNoValue          ErrorType = "no_value"
	ErrorTypeNoMatchingChoice ErrorType = "no_matching_choice"
	ErrorTypeAmbiguousResult  ErrorType = "ambiguous_result"
	ErrorTypeInvalidValue     ErrorType = "invalid_value"
	ErrorTypeTooManyArguments ErrorType = "too_many_arguments"
	ErrorTypeUnknownFlag      ErrorType = "unknown_flag"
	ErrorTypePermission       ErrorType = "permission"
	ErrorTypeInternal         ErrorType = "internal_error"
)

// ParseError is the structured failure produced anywhere in the grammar.
// Position is the offset into the raw input string at which parsing stopped,
// enabling caret-style error display against the original line.
type ParseError struct {
	Type       ErrorType
	Message    string
	Position   int
	Token      string // the offending token, when one was available
	Suggestion string // optional "did you mean" hint
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return e.Message
}

// NewParseError creates a new ParseError with the given type and message
func NewParseError(errType ErrorType, message string) *ParseError {
	return &ParseError{
		Type:    errType,
		Message: message,
	}
}

// asParseError unwraps err into a *ParseError, or wraps it as an internal
// error so position comparisons stay well defined.
func asParseError(err error) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return &ParseError{Type: ErrorTypeInternal, Message: err.Error()}
}

// asParseErrorAt is asParseError with the wrap anchored at the given raw
// offset, so a foreign error ranks where it actually occurred in
// deepest-progress comparisons. An error that is already a *ParseError keeps
// its own position.
func asParseErrorAt(err error, position int) *ParseError {
	if pe, ok := err.(*ParseError); ok {
		return pe
	}
	return &ParseError{Type: ErrorTypeInternal, Message: err.Error(), Position: position}
}

// deepestError picks the failure that made the most progress through the raw
// input, on the theory that it is the most relevant diagnostic. Ties keep the
// first error.
func deepestError(errs ...error) error {
	var best *ParseError
	for _, err := range errs {
		if err == nil {
			continue
		}
		pe := asParseError(err)
		if best == nil || pe.Position > best.Position {
			best = pe
		}
	}
	if best == nil {
		return nil
	}
	return best
}

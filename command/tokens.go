package command

import "strings"

// token is a single parsed argument plus its extent in the raw input.
type token struct {
	value        string
	start        int
	end          int
	unterminated bool // opening quote never closed; error surfaced on Next/Peek
}

// Tokens holds the tokenized arguments of one command invocation and a
// bidirectional read cursor over them. A Tokens value is private to a single
// parse and is not safe for concurrent use.
type Tokens struct {
	raw  string
	toks []token
	pos  int
}

// TokensState is a snapshot of the cursor. It is a plain value: two states
// taken at the same position compare equal.
type TokensState struct {
	pos int
}

// Tokenize splits a raw input line on whitespace. A region delimited by
// matching single or double quotes is one token even if it contains
// whitespace; an unterminated quote is recorded and surfaced lazily by the
// Next or Peek call that would need the token.
func Tokenize(raw string) *Tokens {
	t := &Tokens{raw: raw}
	i, n := 0, len(raw)
	for i < n {
		for i < n && (raw[i] == ' ' || raw[i] == '\t') {
			i++
		}
		if i >= n {
			break
		}
		start := i
		if c := raw[i]; c == '"' || c == '\'' {
			i++
			if j := strings.IndexByte(raw[i:], c); j >= 0 {
				t.toks = append(t.toks, token{value: raw[i : i+j], start: start, end: i + j + 1})
				i += j + 1
				continue
			}
			t.toks = append(t.toks, token{value: raw[i:], start: start, end: n, unterminated: true})
			break
		}
		j := i
		for j < n && raw[j] != ' ' && raw[j] != '\t' {
			j++
		}
		t.toks = append(t.toks, token{value: raw[i:j], start: start, end: j})
		i = j
	}
	return t
}

// HasNext reports whether another argument remains to be read.
func (t *Tokens) HasNext() bool {
	return t.pos < len(t.toks)
}

// Next returns the next argument and advances the cursor. Calling Next and
// Previous in succession returns the same string.
func (t *Tokens) Next() (string, error) {
	if !t.HasNext() {
		return "", t.CreateError(ErrorTypeOutOfTokens, "not enough arguments")
	}
	tok := t.toks[t.pos]
	if tok.unterminated {
		return "", &ParseError{
			Type:     ErrorTypeTokenize,
			Message:  "unterminated quoted string",
			Position: tok.start,
			Token:    tok.value,
		}
	}
	t.pos++
	return tok.value, nil
}

// NextIfPresent returns the next argument if one remains. Unlike Next it
// yields an unterminated quoted token as-is; completion queries run against
// partially typed input where the closing quote legitimately hasn't been
// entered yet.
func (t *Tokens) NextIfPresent() (string, bool) {
	if !t.HasNext() {
		return "", false
	}
	v := t.toks[t.pos].value
	t.pos++
	return v, true
}

// Peek returns the next argument without advancing the cursor. It is
// idempotent absent other mutation.
func (t *Tokens) Peek() (string, error) {
	if !t.HasNext() {
		return "", t.CreateError(ErrorTypeOutOfTokens, "not enough arguments")
	}
	tok := t.toks[t.pos]
	if tok.unterminated {
		return "", &ParseError{
			Type:     ErrorTypeTokenize,
			Message:  "unterminated quoted string",
			Position: tok.start,
			Token:    tok.value,
		}
	}
	return tok.value, nil
}

// HasPrevious reports whether Next has been called more often than Previous.
func (t *Tokens) HasPrevious() bool {
	return t.pos > 0
}

// Previous steps the cursor back one argument and returns it.
func (t *Tokens) Previous() (string, error) {
	if !t.HasPrevious() {
		return "", t.CreateError(ErrorTypeOutOfTokens, "no previous argument")
	}
	t.pos--
	return t.toks[t.pos].value, nil
}

// All returns every argument in order, regardless of cursor position.
func (t *Tokens) All() []string {
	out := make([]string, len(t.toks))
	for i, tok := range t.toks {
		out[i] = tok.value
	}
	return out
}

// Raw returns the raw string that was tokenized.
func (t *Tokens) Raw() string {
	return t.raw
}

// RawPosition returns the offset into the raw string of the argument Peek
// would return, or the length of the raw string when exhausted.
func (t *Tokens) RawPosition() int {
	if t.pos < len(t.toks) {
		return t.toks[t.pos].start
	}
	return len(t.raw)
}

// RawRemaining returns the untokenized tail of the raw string starting at the
// current cursor position.
func (t *Tokens) RawRemaining() string {
	if t.pos >= len(t.toks) {
		return ""
	}
	return t.raw[t.toks[t.pos].start:]
}

// State snapshots the cursor. SetState with the returned value is a no-op
// observable from any other method.
func (t *Tokens) State() TokensState {
	return TokensState{pos: t.pos}
}

// SetState restores a snapshot previously obtained from State.
func (t *Tokens) SetState(s TokensState) {
	t.pos = s.pos
}

// CreateError builds a ParseError positioned at the current cursor, naming
// the offending token when one is available.
func (t *Tokens) CreateError(errType ErrorType, message string) *ParseError {
	e := &ParseError{Type: errType, Message: message, Position: t.RawPosition()}
	if t.pos < len(t.toks) {
		e.Token = t.toks[t.pos].value
	}
	return e
}

// fullTokensState snapshots the token slice along with the cursor. A rollback
// across flag extraction needs it: removeRange mutates the slice, which a
// cursor-only TokensState cannot undo. TokensState stays the cheap comparable
// snapshot for paths that never splice.
type fullTokensState struct {
	toks []token
	pos  int
}

func (t *Tokens) fullState() fullTokensState {
	cp := make([]token, len(t.toks))
	copy(cp, t.toks)
	return fullTokensState{toks: cp, pos: t.pos}
}

// setFullState restores a snapshot from fullState. The snapshot itself
// remains usable afterwards.
func (t *Tokens) setFullState(s fullTokensState) {
	t.toks = make([]token, len(s.toks))
	copy(t.toks, s.toks)
	t.pos = s.pos
}

// seekRawPosition moves the cursor to the first token extending past the raw
// offset, or past the end when none does. After a full-state restore it finds
// the token a spliced-stream cursor was pointing at.
func (t *Tokens) seekRawPosition(pos int) {
	for i, tok := range t.toks {
		if tok.end > pos {
			t.pos = i
			return
		}
	}
	t.pos = len(t.toks)
}

// removeRange splices the tokens in [from, to) out of the stream and leaves
// the cursor at the start of the removed range. The flag grammar uses this to
// side-channel recognized flag tokens away from the positional parameters.
func (t *Tokens) removeRange(from, to TokensState) {
	if from.pos >= to.pos {
		return
	}
	t.toks = append(t.toks[:from.pos], t.toks[to.pos:]...)
	t.pos = from.pos
}

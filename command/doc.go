// Package command implements a composable grammar engine for command-argument
// parsing. A grammar is built once from immutable pieces - leaf value parsers,
// cardinality modifiers, parameters, a flag grammar and a command tree - and
// then drives three surfaces from the same definition: Parse (typed, validated
// values), Complete (tab-completion candidates) and Usage (help text).
//
// Grammar objects are safe for concurrent reentrant use. Each invocation owns
// a private Tokens cursor and Context accumulator; speculative branches
// (FirstOf, Optional, unknown-flag rewind) snapshot and restore both before
// abandoning a path.
package command

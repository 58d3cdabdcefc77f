package asm

import "fmt"

// LexError reports a source token whose mnemonic is not in the catalog.
type LexError struct {
	Name string
	Pos  int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("asm: unknown operation %q (token %d)", e.Name, e.Pos)
}

// Position returns the token index the error refers to.
func (e *LexError) Position() int { return e.Pos }

// SyntaxError reports malformed flow-control structure or a malformed
// token parameter.
type SyntaxError struct {
	Msg string
	Pos int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("asm: %s (token %d)", e.Msg, e.Pos)
}

// Position returns the token index the error refers to.
func (e *SyntaxError) Position() int { return e.Pos }

// ResourceError reports that closing a branch would push the program's
// execution-path count past the configured limit. It is raised at the
// offending endif, before the rest of the source is expanded.
type ResourceError struct {
	Paths int
	Limit int
	Pos   int
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("asm: execution path count %d exceeds limit %d (token %d)",
		e.Paths, e.Limit, e.Pos)
}

// Position returns the token index the error refers to.
func (e *ResourceError) Position() int { return e.Pos }

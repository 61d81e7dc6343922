package bankserver

import "fmt"

// Kind classifies a command-handler failure so it can be mapped uniformly
// to a wire prefix and counted by kind in metrics.
type Kind string

const (
	KindParse  Kind = "parse"
	KindAuth   Kind = "auth"
	KindPolicy Kind = "policy"
	KindState  Kind = "state"
	KindFunds  Kind = "funds"
	KindIO     Kind = "io"
)

// CommandError is a typed sentinel carrying both a taxonomy kind and the
// wire-facing message. Handlers construct one instead of formatting
// "ERROR: ..." strings ad hoc.
type CommandError struct {
	Kind    Kind
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...any) *CommandError {
	return &CommandError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// wireText renders a CommandError the way every handler response is framed
// on the wire.
func (e *CommandError) wireText() string {
	return "ERROR: " + e.Message
}

// fail builds a CommandError, counts it by kind, and returns its wire text.
// Handlers call this instead of formatting "ERROR: ..." strings ad hoc, so
// every failure path is classified and counted uniformly.
func (s *Server) fail(kind Kind, format string, args ...any) string {
	err := newError(kind, format, args...)
	s.metrics.RecordError(kind)
	return err.wireText()
}

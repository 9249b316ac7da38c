package runes

import "fmt"

// ErrorCode identifies the kind of failure that aborts a decipher call
// entirely (as opposed to setting Runestone.Cenotaph, which is not an
// error — see the Cenotaph-vs-Invalid distinction in the design notes).
type ErrorCode string

const (
	// ErrMalformedScript is returned when a non-matching output's script
	// cannot even be decoded into opcodes while scanning for the magic
	// prefix. It aborts the search for the whole transaction.
	ErrMalformedScript ErrorCode = "RUNES_ERR_MALFORMED_SCRIPT"
)

// Error is returned by Decipher on malformed script bytes.
type Error struct {
	Code ErrorCode
	Msg  string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func errf(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}

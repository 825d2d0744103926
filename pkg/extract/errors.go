package extract

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnparsableOutput is matched by every UnparsableOutputError.
var ErrUnparsableOutput = errors.New("unparsable model output")

// UnparsableOutputError reports that no strategy produced a usable record.
type UnparsableOutputError struct {
	// Length of the raw text in bytes.
	Length int
	// Reasons holds one "strategy: reason" entry per strategy tried.
	Reasons []string
}

func (e *UnparsableOutputError) Error() (msg string) {
	if len(e.Reasons) == 0 {
		msg = fmt.Sprintf("%s (%d bytes)", ErrUnparsableOutput, e.Length)
		return msg
	}
	msg = fmt.Sprintf("%s (%d bytes): %s", ErrUnparsableOutput, e.Length, strings.Join(e.Reasons, "; "))
	return msg
}

// Is matches ErrUnparsableOutput.
func (e *UnparsableOutputError) Is(target error) (ok bool) {
	ok = target == ErrUnparsableOutput
	return ok
}

// Package alignerr defines the error taxonomy shared across the aligner:
// sentinel markers for classification plus a wrapping helper that keeps
// component context attached.
package alignerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks unreadable or malformed inputs; fatal for the pair.
	ErrInput = errors.New("input error")
	// ErrConfiguration marks invalid engine parameters.
	ErrConfiguration = errors.New("configuration error")
	// ErrDegenerate marks an unusable synchronization fit; recoverable.
	ErrDegenerate = errors.New("degenerate synchronization")
	// ErrExternalTool marks a failed fallback aligner invocation.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrInput
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether the error should abort the whole run for a file
// pair. Degenerate synchronization is recoverable by construction; anything
// marked as input or configuration failure is not.
func Fatal(err error) bool {
	return errors.Is(err, ErrInput) || errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "alignment failure"
	}
	return strings.Join(parts, ": ")
}

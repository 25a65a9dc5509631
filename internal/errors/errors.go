package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/shiftledger/internal/logger"
)

// Format renders err with an "Error: " prefix. Joined errors are listed one
// per line beneath the prefix.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		parts := joined.Unwrap()
		if len(parts) > 1 {
			var sb strings.Builder
			sb.WriteString("Error:")
			for _, p := range parts {
				sb.WriteString("\n  - ")
				sb.WriteString(p.Error())
			}
			return sb.String()
		}
	}
	return fmt.Sprintf("Error: %v", err)
}

func Formatf(format string, args ...any) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err and exits with status 1. A nil err is a no-op.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

func Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

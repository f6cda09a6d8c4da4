// Package errmsg turns errors into the one-line messages shown on the
// status line.
package errmsg

import "fmt"

// Op names what the user was trying to do when err happened.
type Op string

const (
	OpRemoteListen Op = "listen for remote commands"
	OpSettingsLoad Op = "load settings"
	OpPlaybackOpen Op = "open video"
)

// Format renders "Failed to <op>: <err>", or "" for a nil err.
func Format(op Op, err error) string {
	return FormatWith(op, "", err)
}

// FormatWith is Format with the subject of the operation quoted after op.
func FormatWith(op Op, subject string, err error) string {
	switch {
	case err == nil:
		return ""
	case subject == "":
		return fmt.Sprintf("Failed to %s: %v", op, err)
	default:
		return fmt.Sprintf("Failed to %s %q: %v", op, subject, err)
	}
}

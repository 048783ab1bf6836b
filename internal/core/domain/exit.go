package domain

import "errors"

type exitCoder interface {
	ExitCode() int
}

// ExitCode maps an error to a process exit status. A nil error maps to 0.
// When the chain contains a process exit status it is mirrored, otherwise 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec exitCoder
	if errors.As(err, &ec) {
		if code := ec.ExitCode(); code > 0 {
			return code
		}
	}
	return 1
}

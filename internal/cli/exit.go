package cli

import (
	apperrors "github.com/kbukum/audiovault/errors"
)

// Exit codes by error kind. Cobra usage errors (unknown flag, wrong
// argument count) are plain errors and exit 1 like internal failures.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitFormat   = 3
	ExitService  = 4
	ExitCrypto   = 5
	ExitStore    = 6
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindUsage:
		return ExitUsage
	case apperrors.KindFormat:
		return ExitFormat
	case apperrors.KindService:
		return ExitService
	case apperrors.KindCrypto:
		return ExitCrypto
	case apperrors.KindStore:
		return ExitStore
	default:
		return ExitInternal
	}
}

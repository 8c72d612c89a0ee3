package ledger

import "errors"

// Reasons a record left an account untouched. Apply returns them so callers
// can tell an applied record from an absorbed one; none of them is fatal.
var (
	ErrUnknownKind     = errors.New("unknown record kind")
	ErrAccountLocked   = errors.New("account is locked")
	ErrMissingAmount   = errors.New("amount is missing")
	ErrUnknownTx       = errors.New("transaction not found")
	ErrAlreadyDisputed = errors.New("transaction already disputed")
	ErrNotDisputed     = errors.New("transaction is not disputed")
)

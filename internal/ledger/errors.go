package ledger

import "errors"

// Validation rejections. These never abort the process; callers surface them
// as warnings and skip the mutation.
var (
	ErrNoProjectSelected = errors.New("no project selected")
	ErrNoUserSelected    = errors.New("no author selected")
	ErrProjectExists     = errors.New("project name already exists")
	ErrProjectNotFound   = errors.New("project not found")
	ErrItemNotFound      = errors.New("line item not found")
	ErrInvalidAmount     = errors.New("amount must be a non-negative whole number")
	ErrAmountNotANumber  = errors.New("amount is not a number")
	ErrInvalidDate       = errors.New("invalid date")
	ErrNotAuthorized     = errors.New("not authorized")
)

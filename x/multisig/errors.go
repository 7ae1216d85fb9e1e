package multisig

import "github.com/iov-one/supersig/errors"

// Error codes of the multisig extension
// multisig takes 1030-1049
var (
	ErrInvalidThreshold        = errors.Register(1030, "invalid threshold")
	ErrNotAMember              = errors.Register(1031, "not a member")
	ErrThresholdExceedsMembers = errors.Register(1032, "threshold exceeds members")
	ErrLastMemberRemoval       = errors.Register(1033, "cannot remove the last member")
	ErrDuplicatePayload        = errors.Register(1034, "duplicate payload")
	ErrInsufficientFunds       = errors.Register(1035, "insufficient funds")
	ErrPayloadNotFound         = errors.Register(1036, "payload not found")
	ErrNotSubmitter            = errors.Register(1037, "not the submitter")
	ErrAlreadyApproved         = errors.Register(1038, "already approved")
	ErrNotApproved             = errors.Register(1039, "not approved")
	ErrAlreadyExecuted         = errors.Register(1040, "already executed")
	ErrThresholdNotMet         = errors.Register(1041, "threshold not met")
	ErrAlreadyMember           = errors.Register(1042, "already a member")
)

// ErrArithmeticOverflow is returned when the deposit computation does not
// fit in the amount type.
var ErrArithmeticOverflow = errors.ErrOverflow

package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidGroupType    = errors.New("invalid account group type")
	ErrGroupTypeMismatch   = errors.New("group type differs from parent group type")
	ErrGroupCycle          = errors.New("account group parent chain forms a cycle")
	ErrMissingAccountGroup = errors.New("missing account group")
	ErrDuplicateCode       = errors.New("code already in use")
	ErrInvalidChart        = errors.New("invalid chart of accounts")
)

// MissingGroupError reports that no root group of Type exists, so the well-known
// heads that belong under it cannot be resolved.
type MissingGroupError struct {
	Type GroupType
}

func (e *MissingGroupError) Error() string {
	return fmt.Sprintf("no root %s account group exists; seed the chart of accounts first", e.Type)
}

func (e *MissingGroupError) Is(target error) bool {
	return target == ErrMissingAccountGroup
}

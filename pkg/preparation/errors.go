package preparation

import "errors"

var (
	ErrUnknownProfile      = errors.New("unknown landmark profile")
	ErrDuplicateProfile    = errors.New("duplicate landmark profile")
	ErrNoMatchingProfile   = errors.New("no landmark profile matches the request")
	ErrDisablingNotAllowed = errors.New("disabling landmarks is not allowed")
	ErrNotCreated          = errors.New("preparations are not created")
)

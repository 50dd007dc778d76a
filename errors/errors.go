package errors

import "fmt"

var (
	// Session / identity kinds.
	ErrUnauthenticated   = fmt.Errorf("no guest bound to this session")
	ErrAlreadyBound      = fmt.Errorf("session already chose a name")
	ErrNameTaken         = fmt.Errorf("name already taken")
	ErrInvalidNameFormat = fmt.Errorf("name must be 2-30 alphanumeric or underscore characters")

	// Room kinds.
	ErrRoomNotFound       = fmt.Errorf("room not found")
	ErrNotInRoom          = fmt.Errorf("guest is not in a room")
	ErrNotAMember         = fmt.Errorf("guest is not a member of this room")
	ErrInvalidMessage     = fmt.Errorf("message is empty or too long")
	ErrCodeSpaceExhausted = fmt.Errorf("join code space exhausted")

	// Storage capability failures are always wrapped in this kind so callers
	// never match on engine-specific errors.
	ErrStorageUnavailable = fmt.Errorf("storage unavailable")
)

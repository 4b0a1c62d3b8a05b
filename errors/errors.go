package errors

import "fmt"

var (
	ErrNoSession          = fmt.Errorf("no authenticated session")
	ErrPermissionDenied   = fmt.Errorf("notification permission denied")
	ErrInvalidMobile      = fmt.Errorf("mobile number must be 10 digits starting with 6-9")
	ErrEmptyGroupName     = fmt.Errorf("group name must not be empty")
	ErrEmptyRoomName      = fmt.Errorf("conference room name must not be empty")
	ErrEmptyDisplayName   = fmt.Errorf("conference display name must not be empty")
	ErrStaleFetch         = fmt.Errorf("fetch superseded by a newer request")
	ErrEmptyMessage       = fmt.Errorf("message text must not be empty")
)

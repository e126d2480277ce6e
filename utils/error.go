package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorPlatformUnavailable signals that the platform backend could not be
	// reached; callers fall back to the offline queue / snapshot cache.
	ErrorPlatformUnavailable = errors.New("platform backend unavailable")
)

package attendance

import "errors"

// Attendance domain errors
var (
	// Capture errors
	ErrOutsideGeofence    = errors.New("you are outside the site radius")
	ErrArrivalAlreadyOpen = errors.New("shift already started, record a departure first")
	ErrNoOpenArrival      = errors.New("no open arrival to close")

	// General errors
	ErrEventNotFound     = errors.New("attendance event not found")
	ErrInvalidEventTime  = errors.New("event time must be a full date-time")
	ErrEventTimeInFuture = errors.New("event time must not be in the future")
)

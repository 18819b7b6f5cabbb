package treatment

import "errors"

var (
	// ErrIndexRange reports a treatment index outside [0, NumProfiles).
	ErrIndexRange = errors.New("treatment index out of range")

	// ErrDeserialize reports a malformed serialized treatment.
	ErrDeserialize = errors.New("malformed treatment blob")

	// ErrSampleSize reports a non-positive demand sample size.
	ErrSampleSize = errors.New("sample size must be a positive integer")

	// ErrUnitCosts reports a cost triple whose critical fractile falls
	// outside (0, 1).
	ErrUnitCosts = errors.New("unit costs yield no valid critical fractile")

	// ErrDomain reports natural parameters outside the log-normal fit
	// domain. It indicates a broken profile table, not a caller mistake.
	ErrDomain = errors.New("natural parameters outside fit domain")
)

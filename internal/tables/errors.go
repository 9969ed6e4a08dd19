package tables

import "errors"

var (
	errRequired   = errors.New("value is required")
	errNegative   = errors.New("value must not be negative")
	errScoreRange = errors.New("score must be an integer between 1 and 5")
)

package model

import "errors"

// ErrUnknownCategory is returned when a category name is not one of the
// known WCAG buckets.
var ErrUnknownCategory = errors.New("unknown WCAG category")

package domain

import (
	"errors"
)

var (
	ErrWorkOrderNotFound = errors.New("work order not found")
)

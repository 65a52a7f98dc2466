package submission

import "errors"

var (
	// ErrMalformedInput is returned when the signature data URI cannot be decoded
	ErrMalformedInput = errors.New("malformed signature image")

	// ErrStorage is returned when the signature blob cannot be uploaded
	ErrStorage = errors.New("signature storage failed")

	// ErrPersistence is returned when the work-order record cannot be inserted
	ErrPersistence = errors.New("work order persistence failed")

	// ErrRender is returned when the work-order document cannot be produced
	ErrRender = errors.New("document rendering failed")
)

package persistence

import "errors"

var (
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrInvalidEnvelope    = errors.New("invalid envelope")
	ErrSaveAborted        = errors.New("save aborted")
)

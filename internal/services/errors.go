package services

import "errors"

var (
	ErrButtonNotFound = errors.New("button not found")
	ErrInvalidShare   = errors.New("invalid share data")
)

package blinkmenu

import (
	"github.com/pkg/errors"
)

var (
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrNotInitialized     = errors.New("not initialized")
	ErrInvalidConfig      = errors.New("invalid config")
)

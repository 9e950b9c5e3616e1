package proxy

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when proxying is requested without a list
	// or a readable proxy file.
	ErrConfiguration = errors.New("proxy: no proxy list or proxy path configured")
	// ErrEmptyPool is returned when the pool holds no live endpoints.
	ErrEmptyPool = errors.New("proxy: pool is empty")
)

// PersistError reports a failed rewrite of the backing proxy file. The
// in-memory removal it belongs to has already happened.
type PersistError struct {
	Path     string
	Endpoint Endpoint
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("proxy: rewrite %s without %s: %v", e.Path, e.Endpoint, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

package drive

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by every call on a store built with Unavailable.
var ErrNotConfigured = errors.New("google drive is not configured")

type unavailable struct {
	reason error
}

// Unavailable returns a Store that refuses every call, reporting reason.
// It stands in for a real client when credentials could not be loaded, so
// the rest of the assistant keeps working.
func Unavailable(reason error) Store {
	return unavailable{reason: reason}
}

func (u unavailable) err() error {
	if u.reason == nil {
		return ErrNotConfigured
	}
	return fmt.Errorf("%w: %v", ErrNotConfigured, u.reason)
}

func (u unavailable) List(context.Context, ListQuery) ([]File, error)        { return nil, u.err() }
func (u unavailable) Get(context.Context, string) (File, error)              { return File{}, u.err() }
func (u unavailable) Export(context.Context, string, string) ([]byte, error) { return nil, u.err() }
func (u unavailable) Download(context.Context, string) ([]byte, error)       { return nil, u.err() }

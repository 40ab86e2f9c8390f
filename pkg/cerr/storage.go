package cerr

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/kazz187/taskchat/pkg/storage"
)

func isMissing(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, sql.ErrNoRows)
}

// WrapStorageReadError turns a missing record into NotFound with the detail
// "{target} not found". Anything else is an internal error.
func WrapStorageReadError(target string, err error) error {
	return wrapStorage("read", target, err)
}

func WrapStorageWriteError(target string, err error) error {
	return NewError(Internal, "server error", fmt.Errorf("failed to write %s: %w", target, err))
}

func WrapStorageDeleteError(target string, err error) error {
	return wrapStorage("delete", target, err)
}

func wrapStorage(verb, target string, err error) error {
	if isMissing(err) {
		return NewError(NotFound, target+" not found", err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to %s %s: %w", verb, target, err))
}

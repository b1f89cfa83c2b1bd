package ecs

import (
	"errors"
	"fmt"
	"reflect"
)

// Not-found kinds are distinguishable with errors.Is. The wrapped message
// always carries the missing key.
var (
	ErrEntityNotFound    = errors.New("entity not found")
	ErrComponentNotFound = errors.New("component not found")
	ErrFactoryNotFound   = errors.New("component factory not found")
)

func entityNotFound(id EntityID) error {
	return fmt.Errorf("%w: %d", ErrEntityNotFound, id)
}

func componentNotFound(id EntityID, t reflect.Type) error {
	return fmt.Errorf("%w: %s on entity %d", ErrComponentNotFound, t, id)
}

package core

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("pipelinepage: not found")

var ErrUnknownVariant = fmt.Errorf("unknown variant: %w", ErrNotFound)

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

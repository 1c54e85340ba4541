package history

import (
	"errors"
	"fmt"
)

var errNoRedisClient = errors.New("history: redis driver requires a client")

var errStoreClosed = errors.New("history: store is closed")

func errUnknownDriver(d Driver) error {
	return fmt.Errorf("history: unknown driver %q", d)
}

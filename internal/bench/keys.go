package bench

import (
	"fmt"
	"strconv"

	"github.com/oklog/ulid/v2"
)

// GenerateKeys returns n distinct keys of the given kind.
func GenerateKeys(kind string, n int) ([]string, error) {
	keys := make([]string, n)
	switch kind {
	case KeyKindInt:
		for i := range keys {
			keys[i] = strconv.Itoa(i)
		}
	case KeyKindULID:
		// Make draws from a monotonic source, so ids minted in the same
		// millisecond still differ.
		for i := range keys {
			keys[i] = ulid.Make().String()
		}
	default:
		return nil, fmt.Errorf("%w: unknown key kind %q", ErrInvalidConfig, kind)
	}
	return keys, nil
}

// Package convert provides safe type conversion utilities.
package convert

import (
	"fmt"
	"math"
)

// IntToUint32 safely converts an int to uint32, returning an error if it is out of range.
func IntToUint32(v int) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("integer overflow: %d cannot be converted to uint32", v)
	}
	return uint32(v), nil
}

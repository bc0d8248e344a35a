package api

import (
	"fmt"
	"strconv"
)

// ParseID parses a numeric object ID from a command-line argument.
func ParseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a numeric id", arg)
	}
	if id < 1 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

package utils

import (
	"fmt"
	"strconv"
)

// ToString converts loosely typed JSON values to string. Whole floats are
// rendered without a fractional part, as panels send numeric ids as JSON
// numbers. nil yields "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package staff

import (
	"fmt"
	"strings"
)

const fallbackIDPrefix = "STF"

// IntnFunc returns a non-negative pseudo-random int in [0,n).
type IntnFunc func(n int) int

// GenerateStaffID derives a short staff id from name.
// Names shorter than 2 characters get "STF" + [1000, 9999], others their first 2 characters
// upper-cased + [100, 999]. The result is not guaranteed to be unique.
func GenerateStaffID(name string, intn IntnFunc) string {
	runes := []rune(name)
	if len(runes) < 2 {
		return fmt.Sprintf("%s%d", fallbackIDPrefix, 1000+intn(9000))
	}
	return fmt.Sprintf("%s%d", strings.ToUpper(string(runes[:2])), 100+intn(900))
}

package raw

import (
	"strconv"
	"strings"
)

// NormalizeChromosome converts a vendor chromosome token to its canonical
// form: "1".."22", "X", "Y" or "MT". Any token that cannot be resolved
// returns "0", the discard sentinel consumed by every caller. It never
// returns an error.
func NormalizeChromosome(token string) string {
	token = strings.TrimSpace(token)

	switch strings.ToLower(token) {
	case "x", "chrx", "23":
		return "X"
	case "y", "chry", "24":
		return "Y"
	case "m", "mt", "chrm", "chrmt", "25":
		return "MT"
	}

	// Strip everything but digits (handles "chr7", "Chr 7" and friends).
	var digits strings.Builder
	for _, r := range token {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil || n < 1 || n > 22 {
		return "0"
	}
	return strconv.Itoa(n)
}

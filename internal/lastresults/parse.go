package lastresults

import (
	"fmt"
	"strconv"
	"strings"
)

// maxRangeSize bounds ranges such as "1-5000" typed by accident.
const maxRangeSize = 1000

// ParseNumbers parses result numbers: "1", "1,3,5", "1-5" or a mix such
// as "1,3-5 7". Duplicates are dropped and order is kept.
func ParseNumbers(input string) ([]int, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidNumber)
	}

	var result []int
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			result = append(result, n)
		}
	}

	for _, part := range strings.FieldsFunc(input, func(r rune) bool { return r == ',' || r == ' ' }) {
		if strings.Contains(part, "-") {
			nums, err := parseRange(part)
			if err != nil {
				return nil, err
			}
			for _, n := range nums {
				add(n)
			}
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid number", ErrInvalidNumber, part)
		}
		if n < 1 {
			return nil, fmt.Errorf("%w: %d must be positive", ErrInvalidNumber, n)
		}
		add(n)
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no valid numbers found", ErrInvalidNumber)
	}
	return result, nil
}

func parseRange(s string) ([]int, error) {
	startText, endText, _ := strings.Cut(s, "-")
	start, err := strconv.Atoi(startText)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid range start %q", ErrInvalidNumber, startText)
	}
	end, err := strconv.Atoi(endText)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid range end %q", ErrInvalidNumber, endText)
	}
	if start < 1 {
		return nil, fmt.Errorf("%w: range start %d must be positive", ErrInvalidNumber, start)
	}
	if end < start {
		return nil, fmt.Errorf("%w: range end %d must be >= start %d", ErrInvalidNumber, end, start)
	}
	if end-start+1 > maxRangeSize {
		return nil, fmt.Errorf("%w: range %d-%d is too large (max %d)", ErrInvalidNumber, start, end, maxRangeSize)
	}

	result := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		result = append(result, i)
	}
	return result, nil
}

// IsNumberRef reports whether arg looks like result numbers rather than a
// bag/title reference.
func IsNumberRef(arg string) bool {
	if strings.TrimSpace(arg) == "" {
		return false
	}
	for _, r := range arg {
		if (r < '0' || r > '9') && r != ',' && r != '-' && r != ' ' {
			return false
		}
	}
	return true
}

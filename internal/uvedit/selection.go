package uvedit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseSelection parses a face selection such as "all" or "0,2-5,9".
// The result is sorted and free of duplicates.
func ParseSelection(spec string, faceCount int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}
	if strings.EqualFold(spec, "all") {
		all := make([]int, faceCount)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	seen := make(map[int]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("uvedit: bad selection %q", part)
		}
		b := a
		if isRange {
			b, err = strconv.Atoi(strings.TrimSpace(hi))
			if err != nil || b < a {
				return nil, fmt.Errorf("uvedit: bad selection range %q", part)
			}
		}
		if a < 0 || b >= faceCount {
			return nil, fmt.Errorf("uvedit: selection %q outside faces 0-%d", part, faceCount-1)
		}
		for i := a; i <= b; i++ {
			seen[i] = true
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

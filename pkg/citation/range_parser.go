package citation

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Marker group pattern:
// [1]       - single citation
// [1,2]     - list
// [4-6]     - inclusive range
// [1, 3-5]  - mixed
var markerGroupPattern = regexp.MustCompile(`\[(\d[\d,\s-]*)\]`)

var (
	rangePartPattern  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
	singlePartPattern = regexp.MustCompile(`^\d+$`)
)

// maxRangeSpan bounds how many numbers a single "N-M" part may expand to.
// Wider ranges are treated as malformed and ignored.
const maxRangeSpan = 1000

// NumberSet is a set of citation numbers.
type NumberSet map[int]struct{}

func (s NumberSet) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in ascending order.
func (s NumberSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// groupPart is one comma-separated piece of a marker group.
// Numbers is empty when the piece is not a number or a valid range.
type groupPart struct {
	Raw     string
	Numbers []int
	IsRange bool
}

// ExtractReferencedNumbers returns every citation number referenced by a
// bracketed marker group in text. Malformed groups and parts are ignored.
func ExtractReferencedNumbers(text string) NumberSet {
	set := make(NumberSet)
	for _, match := range markerGroupPattern.FindAllStringSubmatch(text, -1) {
		for _, part := range parseGroup(match[1]) {
			for _, n := range part.Numbers {
				set[n] = struct{}{}
			}
		}
	}
	return set
}

// parseGroup splits the inside of a marker group on commas and resolves each
// trimmed part. Empty parts are dropped.
func parseGroup(inner string) []groupPart {
	rawParts := strings.Split(inner, ",")
	parts := make([]groupPart, 0, len(rawParts))
	for _, raw := range rawParts {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts = append(parts, parsePart(raw))
	}
	return parts
}

func parsePart(raw string) groupPart {
	if m := rangePartPattern.FindStringSubmatch(raw); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo != nil || errHi != nil {
			return groupPart{Raw: raw}
		}
		part := groupPart{Raw: raw, IsRange: true}
		if hi < lo || hi-lo >= maxRangeSpan {
			return part
		}
		part.Numbers = make([]int, 0, hi-lo+1)
		for n := lo; n <= hi; n++ {
			part.Numbers = append(part.Numbers, n)
		}
		return part
	}

	if singlePartPattern.MatchString(raw) {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return groupPart{Raw: raw}
		}
		return groupPart{Raw: raw, Numbers: []int{n}}
	}

	return groupPart{Raw: raw}
}

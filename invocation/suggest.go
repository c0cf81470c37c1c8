package invocation

import (
	"sort"
	"strings"
)

// Suggest returns up to limit candidates closest to raw by edit distance, closest first. Candidates
// further than a third of the length of raw (minimum 2 edits) are never suggested.
func Suggest(raw string, candidates []string, limit int) []string {
	raw = strings.ToLower(strings.TrimSpace(raw))

	if raw == "" || limit <= 0 {
		return nil
	}

	maxDistance := len(raw) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	type scored struct {
		id       string
		distance int
	}

	var matches []scored
	for _, c := range candidates {
		d := levenshtein(raw, strings.ToLower(c))
		if d <= maxDistance {
			matches = append(matches, scored{c, d})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].id < matches[j].id
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.id)
	}

	return out
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(rb)]
}

// MentionID extracts the ID from "<@123>" or "<@!123>", returning anything else trimmed
func MentionID(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "<@") && strings.HasSuffix(raw, ">") {
		return strings.TrimPrefix(raw[2:len(raw)-1], "!")
	}
	return raw
}

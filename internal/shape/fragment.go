package shape

import "strings"

// fragments extracts up to maxFragments substrings of at most
// fragmentSize characters from content, each centered on the first
// occurrence of a distinct term in terms, in term order (spec.md §4.10
// "up to N fragments containing query-term matches"). Falls back to a
// single leading fragment when content carries no stored body or no term
// matches — the case for exact-tier symbol hits, which have no indexed
// content field at all.
func fragments(content string, terms []string, maxFragments, fragmentSize int) []string {
	if content == "" {
		return nil
	}
	lower := strings.ToLower(content)

	var out []string
	var starts []int
	for _, term := range terms {
		if len(out) >= maxFragments {
			break
		}
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		idx := strings.Index(lower, strings.ToLower(term))
		if idx < 0 {
			continue
		}
		if overlapsAny(starts, idx, fragmentSize) {
			continue
		}

		start := idx - fragmentSize/2
		start = max(start, 0)
		end := min(start+fragmentSize, len(content))
		start = max(end-fragmentSize, 0)

		out = append(out, strings.TrimSpace(content[start:end]))
		starts = append(starts, start)
	}

	if len(out) == 0 {
		end := min(fragmentSize, len(content))
		out = append(out, strings.TrimSpace(content[:end]))
	}
	return out
}

func overlapsAny(starts []int, idx, fragmentSize int) bool {
	for _, s := range starts {
		if idx >= s && idx < s+fragmentSize {
			return true
		}
	}
	return false
}

// Package hashtag extracts hashtags from tweet content and ranks them.
package hashtag

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Guyuepp/go-clean-tweets/domain"
)

// Prefix starts every hashtag.
const Prefix = "#"

// \w is ASCII only: letters, digits and underscore.
var pattern = regexp.MustCompile(`#\w+`)

// Extract returns the hashtags of content in order of appearance. Duplicates
// are kept and case is preserved. The result is empty, never nil.
func Extract(content string) []string {
	tags := pattern.FindAllString(content, -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

// Count extracts the hashtags of every content and ranks the distinct tags by
// number of occurrences, highest first. Equal counts are ordered by tag.
func Count(contents []string) []domain.HashtagCount {
	counts := make(map[string]int64)
	for _, content := range contents {
		for _, tag := range Extract(content) {
			counts[tag]++
		}
	}

	res := make([]domain.HashtagCount, 0, len(counts))
	for tag, count := range counts {
		res = append(res, domain.HashtagCount{Tag: tag, Count: count})
	}
	slices.SortFunc(res, func(a, b domain.HashtagCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Tag, b.Tag)
	})
	return res
}

// Contains reports whether content mentions tag. The match is a literal,
// case-sensitive substring match on "#"+tag, so "cat" matches "#category".
func Contains(content, tag string) bool {
	return strings.Contains(content, Prefix+tag)
}

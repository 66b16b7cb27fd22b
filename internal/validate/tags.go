package validate

import "strings"

const maxDerivedTags = 4

// tagBuckets maps a derived tag to the substrings that trigger it. Matching
// is case-insensitive over the error text and test title.
var tagBuckets = []struct {
	tag      string
	keywords []string
}{
	{"timing", []string{"timeout", "timed out", "waiting for", "deadline", "too slow"}},
	{"selector", []string{"selector", "locator", "element", "not found", "detached", "never found"}},
	{"auth", []string{"auth", "login", "unauthorized", "forbidden", "401", "403", "token", "session"}},
	{"network", []string{"network", "fetch", "xhr", "econn", "socket", "502", "503", "request failed"}},
	{"assertion", []string{"assert", "expected", "to equal", "to be", "to contain", "deep equal"}},
}

// DeriveTags derives heuristic tags from a test's error text and title using
// fixed keyword buckets. At most four tags are returned, in bucket order.
func DeriveTags(errText, title string) []string {
	haystack := strings.ToLower(errText + " " + title)
	var tags []string
	for _, bucket := range tagBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(haystack, kw) {
				tags = append(tags, bucket.tag)
				break
			}
		}
		if len(tags) == maxDerivedTags {
			break
		}
	}
	return tags
}

package harness

import "strings"

// CommentExtractor returns an ExtractFunc that takes the first run of
// consecutive lines starting with the given comment prefix, strips the
// prefix, and joins the remainder. Lines before the first comment are
// skipped, so the test block need not be at the very top of the file. A file
// with no such block, or a blank one, has no tests.
func CommentExtractor(prefix string) ExtractFunc {
	return func(_ string, content []byte) (string, bool) {
		var block []string
		found := false
		for _, line := range strings.Split(string(content), "\n") {
			if strings.HasPrefix(line, prefix) {
				block = append(block, strings.TrimPrefix(line, prefix))
				found = true
				continue
			}
			if found {
				break
			}
		}
		if !found {
			return "", false
		}
		raw := strings.Join(block, "\n")
		if strings.TrimSpace(raw) == "" {
			return "", false
		}
		return raw, true
	}
}

package lifecycle

import (
	"strings"

	"alcyxob/peer-review/internal/domain"
)

// NormalizeReviewers trims reviewer names, drops blanks and duplicates
// (case-sensitive) and keeps first-occurrence order. The result is never nil.
func NormalizeReviewers(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// SanitizeFiles converts client file descriptors into attachments. Names are
// trimmed, missing or negative sizes become 0 and nameless entries are dropped.
func SanitizeFiles(files []domain.FileInput) []domain.FileAttachment {
	out := make([]domain.FileAttachment, 0, len(files))
	for _, f := range files {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			continue
		}
		var size int64
		if f.Size != nil && *f.Size > 0 {
			size = *f.Size
		}
		out = append(out, domain.FileAttachment{Name: name, Size: size})
	}
	return out
}

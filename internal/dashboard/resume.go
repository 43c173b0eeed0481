package dashboard

import (
	"path"
	"strings"
)

// ResumeURL builds the download link for a stored resume path.
// Windows separators are normalized and the path is joined under base.
func ResumeURL(base, resumePath string) string {
	clean := strings.TrimLeft(strings.ReplaceAll(strings.TrimSpace(resumePath), "\\", "/"), "/")
	if clean == "" {
		return ""
	}
	return strings.TrimRight(base, "/") + "/" + clean
}

// ResumeFileName returns the last element of a stored resume path
func ResumeFileName(resumePath string) string {
	clean := strings.TrimRight(strings.ReplaceAll(strings.TrimSpace(resumePath), "\\", "/"), "/")
	if clean == "" {
		return ""
	}
	return path.Base(clean)
}

package storage

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// AllowedFile reports whether name carries one of the accepted image
// extensions. Only the suffix after the last dot counts.
func AllowedFile(name string) bool {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return false
	}
	_, ok := allowedExtensions[strings.ToLower(name[idx+1:])]
	return ok
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat ASCII filename that is safe to use
// as a path component or object key. The result may be empty.
func SecureFilename(name string) string {
	name = norm.NFKD.String(name)

	var b strings.Builder
	for len(name) > 0 {
		r, size := utf8.DecodeRuneInString(name)
		name = name[size:]
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	name = b.String()

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")

	return strings.Trim(name, "._")
}

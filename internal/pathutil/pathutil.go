// # internal/pathutil/pathutil.go
package pathutil

import (
	"strings"
)

// FSPrefix is the loader's filesystem escape hatch: identifiers for modules
// outside the project root are served as FSPrefix + absolute path.
const FSPrefix = "/@fs"

// RealpathFunc canonicalizes an absolute path, resolving symlinks and
// correcting filesystem case. Injected so normalization is testable without
// touching a real filesystem.
type RealpathFunc func(path string) (string, error)

// Verbatim path-quoting prefixes in both separator spellings. Order matters:
// the UNC forms must be tried before their plain counterparts.
var verbatimPrefixes = []string{
	`\\?\UNC\`,
	`\\?\`,
	`//?/UNC/`,
	`//?/`,
}

// Normalize canonicalizes a module identifier on Windows so that verbatim
// path quoting never leaks into graph keys or loader requests. On any other
// platform the identifier is returned unchanged. Normalization is best-effort:
// malformed input and realpath failures degrade to returning the input.
func Normalize(id string, goos string, realpath RealpathFunc) string {
	if goos != "windows" {
		return id
	}

	path := id
	hadFS := strings.HasPrefix(id, FSPrefix)
	if hadFS {
		path = strings.TrimPrefix(id, FSPrefix)
	}

	path = stripVerbatim(path)
	// The escape hatch keeps one slash between prefix and drive letter:
	// /@fs/C:/... trims to /C:/..., which is not yet a Windows path.
	if hadFS && len(path) >= 4 && isSeparator(path[0]) && isDriveLetter(path[1]) && path[2] == ':' && isSeparator(path[3]) {
		path = path[1:]
	}
	if !isAbsWindows(path) {
		return id
	}

	resolved := toBackslash(path)
	if realpath != nil {
		canonical, err := realpath(resolved)
		if err != nil {
			return id
		}
		// The realpath implementation may hand the verbatim form back.
		resolved = stripVerbatim(canonical)
	}

	out := toSlash(resolved)
	if hadFS {
		if !strings.HasPrefix(out, "/") {
			out = "/" + out
		}
		return FSPrefix + out
	}
	return out
}

func stripVerbatim(path string) string {
	for _, prefix := range verbatimPrefixes {
		if strings.HasPrefix(path, prefix) {
			rest := path[len(prefix):]
			if strings.Contains(prefix, "UNC") {
				// \\?\UNC\server\share -> \\server\share
				return `\\` + rest
			}
			return rest
		}
	}
	// Loader identifiers keep a single leading slash before the quoted form:
	// /@fs//?/C:/... trims to /?/C:/...
	if strings.HasPrefix(path, `/?/`) {
		return path[len(`/?/`):]
	}
	if strings.HasPrefix(path, `\?\`) {
		return path[len(`\?\`):]
	}
	return path
}

// isAbsWindows reports whether path is a drive-letter or UNC absolute path,
// with either separator.
func isAbsWindows(path string) bool {
	if len(path) >= 3 && isDriveLetter(path[0]) && path[1] == ':' && isSeparator(path[2]) {
		return true
	}
	if len(path) >= 2 && isSeparator(path[0]) && isSeparator(path[1]) {
		return true
	}
	return false
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSeparator(c byte) bool {
	return c == '/' || c == '\\'
}

func toBackslash(path string) string {
	return strings.ReplaceAll(path, "/", `\`)
}

func toSlash(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

package source

import (
	"bytes"
	"path/filepath"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// normalizeCRLF replaces every \r\n with \n and leaves lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// normalizeNFC composes the text so identifiers typed with different
// combining sequences compare equal.
func normalizeNFC(content []byte) ([]byte, bool) {
	if norm.NFC.IsNormal(content) {
		return content, false
	}
	return norm.NFC.Bytes(content), true
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i))
		}
	}
	return out
}

func toLineCol(lineIdx []uint32, off uint32) LineCol {
	if len(lineIdx) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// largest i with lineIdx[i] < off; a newline byte belongs to its own line
	lo, hi := 0, len(lineIdx)-1
	for lo <= hi {
		mid := (lo + hi) >> 1
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	line := hi
	if line < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	startOff := lineIdx[line] + 1
	return LineCol{Line: uint32(line + 2), Col: off - startOff + 1}
}

// ExtractLine returns line n (1-based) of src without its trailing newline.
// Line 0 and lines past the end yield "". A source that ends with '\n'
// has an empty final line.
func ExtractLine(src []byte, n uint32) string {
	if n == 0 {
		return ""
	}
	current := uint32(1)
	start := 0
	for current < n && start < len(src) {
		nl := bytes.IndexByte(src[start:], '\n')
		if nl < 0 {
			break
		}
		start += nl + 1
		current++
	}
	if current != n || start >= len(src) {
		return ""
	}
	end := bytes.IndexByte(src[start:], '\n')
	if end < 0 {
		return string(src[start:])
	}
	return string(src[start : start+end])
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

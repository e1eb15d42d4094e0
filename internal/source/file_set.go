package source

import (
	"crypto/sha256"
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to positions.
type FileSet struct {
	files []File
	index map[string]FileID // path -> latest id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	hash := sha256.Sum256(content)
	lineIdx := buildLineIndex(content)
	normalizedPath := normalizePath(path)

	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:      id,
		Path:    normalizedPath,
		Content: content,
		LineIdx: lineIdx,
		Hash:    hash,
		Flags:   flags,
	})
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, normalizes BOM/CRLF/NFC, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(content)
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds in-memory text (stdin, tests) with the same normalization as Load.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	content, flags := normalize(content)
	return fileSet.Add(name, content, flags|FileVirtual)
}

func normalize(content []byte) ([]byte, FileFlags) {
	var flags FileFlags
	content, hadBOM := removeBOM(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	content, hadNFC := normalizeNFC(content)
	if hadNFC {
		flags |= FileNormalizedNFC
	}
	return content, flags
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	if int(id) >= len(fileSet.files) {
		panic(fmt.Sprintf("source: file id %d out of range (%d files)", id, len(fileSet.files)))
	}
	return &fileSet.files[id]
}

// Len reports the number of stored files.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// Location converts a span into the diagnostic location form.
func (fileSet *FileSet) Location(span Span) Location {
	start, _ := fileSet.Resolve(span)
	return Location{
		Line:   start.Line,
		Col:    start.Col,
		Offset: span.Start,
		Length: span.Len(),
	}
}

// GetLine returns line lineNum (1-based) or "" when it does not exist.
func (f *File) GetLine(lineNum uint32) string {
	return ExtractLine(f.Content, lineNum)
}

// Span returns a span of the whole file.
func (f *File) Span() Span {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return Span{File: f.ID, Start: 0, End: end}
}

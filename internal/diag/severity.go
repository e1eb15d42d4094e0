package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevNote is for informational diagnostics.
	SevNote Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
	// SevFatal stops the pipeline after the current phase.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevNote:
		return "note"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	case SevFatal:
		return "fatal error"
	}
	return "unknown"
}

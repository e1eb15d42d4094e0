// Package version holds build metadata of the druk CLI. The variables can be
// overridden at build time via -ldflags.
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

var (
	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	GitCommit = ""
	BuildDate = ""
)

// Colored renders v with one colour per version component. Anything after
// the patch number (pre-release, build metadata) stays uncoloured.
func Colored(v string) string {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) != 3 {
		return v
	}
	patch, rest := parts[2], ""
	if i := strings.IndexAny(patch, "-+"); i >= 0 {
		patch, rest = patch[:i], patch[i:]
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(patch) + rest
}

// SetColor toggles colouring for Colored.
func SetColor(enabled bool) {
	for _, c := range []*color.Color{majorColor, minorColor, patchColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// Line is the text printed by `druk version`.
func Line() string {
	var sb strings.Builder
	sb.WriteString("druk ")
	sb.WriteString(Colored(Version))
	if GitCommit != "" {
		sb.WriteString(" (" + GitCommit + ")")
	}
	if BuildDate != "" {
		sb.WriteString(" built " + BuildDate)
	}
	return sb.String()
}

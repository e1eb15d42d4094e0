package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"druk/internal/project"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var languageSeeds = []string{
	"",
	"print 1;",
	"var x: Number = 1 + 2 * 3;\nprint x;\n",
	"function f(a, b: Number) { return a - b; }\nprint f(1, 2);\n",
	"if (true) { print \"yes\"; } else { print \"no\"; }\n",
	"var i: Number = 0;\nwhile (i < 3) { i = i + 1; }\n",
	"var xs: Number = [1, 2, 3];\nprint xs[0];\n",
	"print !(1 > 2) || false && true;\n",
	"function outer() { function inner() { return 1; } return inner(); }\n",
	"var s: String = \"a\\\"b\";\n",
	"print 1.5e3 % 2;\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != project.SourceExt {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clamp(src, maxSeedBytes))
		return nil
	})
}

// clamp copies at most limit bytes of src.
func clamp(src []byte, limit int) []byte {
	if len(src) <= limit {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:limit]...)
}

// truncateForLog truncates input for logging purposes.
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}

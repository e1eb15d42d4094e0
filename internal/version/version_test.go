package version

import "testing"

func TestColoredPlain(t *testing.T) {
	SetColor(false)
	defer SetColor(true)

	tests := []struct{ in, want string }{
		{"0.1.0-dev", "0.1.0-dev"},
		{"1.2.3+build.7", "1.2.3+build.7"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		if got := Colored(tt.in); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	SetColor(true)
	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Fatalf("expected ANSI escapes, got %q", got)
	}
}

func TestLine(t *testing.T) {
	SetColor(false)
	defer SetColor(true)
	origCommit, origDate := GitCommit, BuildDate
	defer func() { GitCommit, BuildDate = origCommit, origDate }()

	GitCommit, BuildDate = "", ""
	if got := Line(); got != "druk "+Version {
		t.Fatalf("Line() = %q", got)
	}
	GitCommit, BuildDate = "abc123", "2026-01-15"
	want := "druk " + Version + " (abc123) built 2026-01-15"
	if got := Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStartWithoutProfilesIsNil(t *testing.T) {
	s, err := Start(Options{})
	if err != nil || s != nil {
		t.Fatalf("expected nil session, got %v %v", s, err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop on nil session: %v", err)
	}
}

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU:          filepath.Join(dir, "cpu.pprof"),
		Mem:          filepath.Join(dir, "mem.pprof"),
		RuntimeTrace: filepath.Join(dir, "trace.out"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
	for _, path := range []string{opts.CPU, opts.Mem, opts.RuntimeTrace} {
		st, err := os.Stat(path)
		if err != nil {
			t.Fatalf("missing profile %s: %v", path, err)
		}
		if st.Size() == 0 {
			t.Fatalf("empty profile %s", path)
		}
	}
}

func TestStartReportsBadPath(t *testing.T) {
	_, err := Start(Options{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")})
	if err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}

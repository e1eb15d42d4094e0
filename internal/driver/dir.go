package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"druk/internal/diag"
	"druk/internal/project"
	"druk/internal/source"
	"druk/internal/trace"
)

// SourceFiles returns every *.druk file below dir, sorted.
func SourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, project.SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// DiagnoseDir compiles every *.druk file below dir as an independent unit.
// Files are loaded up front into one FileSet, which the workers only read.
// Results are ordered by path. A file that cannot be read yields a result
// carrying an I/O diagnostic instead of failing the whole run.
func DiagnoseDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []*Result, error) {
	files, err := SourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	fileSet := source.NewFileSet()
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	fileIDs := make([]source.FileID, len(files))
	loadErrors := make(map[int]error)
	for i, path := range files {
		id, err := fileSet.Load(path)
		if err != nil {
			loadErrors[i] = err
			continue
		}
		fileIDs[i] = id
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	dirSpan := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "diagnose-dir", trace.CurrentSpan(ctx))
	defer dirSpan.End("")
	ctx = trace.WithSpan(ctx, dirSpan)

	// each worker writes only its own index
	results := make([]*Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if loadErr, failed := loadErrors[i]; failed {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
				results[i] = &Result{FileSet: fileSet, Bag: bag, path: path}
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: loadErr})
				return nil
			}
			results[i] = CompileSource(gctx, fileSet, fileIDs[i], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	dirSpan.WithExtra("files", strconv.Itoa(len(files)))
	return fileSet, results, nil
}

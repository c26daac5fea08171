// Package analyzer builds the inheritance graph from parsed source units.
package analyzer

import (
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/zby/classpairs/pkg/parser"
)

// ProgressFunc is called after each file is processed.
type ProgressFunc func()

// mapFiles processes files in parallel, calling fn for each file with a
// dedicated parser, and returns the results in arbitrary order. If
// maxWorkers is <= 0, defaults to 2x NumCPU (tuned for the mixed I/O and
// CGO workload of tree-sitter parsing). Errors from fn are discarded;
// callers that need them fold errors into T.
func mapFiles[T any](files []string, maxWorkers int, fn func(*parser.Parser, string) (T, error), onProgress ProgressFunc) []T {
	if len(files) == 0 {
		return nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * 2
	}

	results := make([]T, 0, len(files))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			psr := parser.New()
			defer psr.Close()

			result, err := fn(psr, path)

			if onProgress != nil {
				onProgress()
			}

			if err != nil {
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}

package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/heirtrace/internal/logger"
	"github.com/ppiankov/heirtrace/internal/model"
)

// Resolver resolves one case file into a report
type Resolver interface {
	ResolveFile(ctx context.Context, path string) (*model.Report, error)
}

// CaseJob resolves one case file
type CaseJob struct {
	Index    int
	Path     string
	Resolver Resolver
}

// Execute executes the case job
func (j *CaseJob) Execute(ctx context.Context) Result {
	report, err := j.Resolver.ResolveFile(ctx, j.Path)
	if err != nil {
		logger.Warn("case failed", "path", j.Path, "error", err)
		return &CaseResult{Index: j.Index, Path: j.Path, Error: err}
	}
	return &CaseResult{Index: j.Index, Path: j.Path, Report: report}
}

// CaseResult is the result of a case job
type CaseResult struct {
	Index  int
	Path   string
	Report *model.Report
	Error  error
}

// GetError returns the error from the case result
func (r *CaseResult) GetError() error {
	return r.Error
}

// BatchProcessor resolves many case files concurrently
type BatchProcessor struct {
	resolver    Resolver
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(resolver Resolver, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// ProcessCases resolves the given case files. Results are returned in input
// order; a failing case does not stop the others.
func (b *BatchProcessor) ProcessCases(ctx context.Context, paths []string) []*CaseResult {
	if len(paths) == 0 {
		return []*CaseResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	submitted := 0
	for i, path := range paths {
		job := &CaseJob{
			Index:    i,
			Path:     path,
			Resolver: b.resolver,
		}
		if !pool.Submit(job) {
			break
		}
		submitted++
	}

	results := pool.Wait()

	caseResults := make([]*CaseResult, 0, len(paths))
	done := make(map[int]bool, len(results))
	for _, result := range results {
		cr := result.(*CaseResult)
		done[cr.Index] = true
		caseResults = append(caseResults, cr)
	}

	// Cases never submitted because the context ended
	for i, path := range paths {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = fmt.Errorf("case not processed")
			}
			caseResults = append(caseResults, &CaseResult{Index: i, Path: path, Error: err})
		}
	}

	sort.Slice(caseResults, func(i, j int) bool {
		return caseResults[i].Index < caseResults[j].Index
	})

	logger.Debug("batch finished", "cases", len(paths), "submitted", submitted)
	return caseResults
}

// ProcessFile reads case paths from a list file and resolves them. Relative
// paths are resolved against the list file's directory.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*CaseResult, error) {
	paths, err := ReadCaseList(listPath)
	if err != nil {
		return nil, fmt.Errorf("read case list: %w", err)
	}

	base := filepath.Dir(listPath)
	for i, p := range paths {
		if !filepath.IsAbs(p) {
			paths[i] = filepath.Join(base, p)
		}
	}

	return b.ProcessCases(ctx, paths), nil
}

// ReadCaseList reads case file paths from a file (one per line)
func ReadCaseList(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

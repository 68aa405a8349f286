package check

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner drives one verification run: discover markdown files, extract
// and resolve their links, fan the checks out through the dispatcher,
// and fold the settled outcomes into a summary.
type Runner struct {
	source     Source
	extractor  Extractor
	resolver   Resolver
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// NewRunner wires the pipeline collaborators together.
func NewRunner(source Source, extractor Extractor, resolver Resolver, dispatcher *Dispatcher, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		source:     source,
		extractor:  extractor,
		resolver:   resolver,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Run verifies every link under the source root. Files are processed
// concurrently and every submitted check settles before the summary is
// computed; reports come back in discovery order regardless of completion
// order. Only a discovery failure is returned as an error.
func (r *Runner) Run(ctx context.Context) (RunSummary, []FileReport, error) {
	runID := uuid.NewString()
	logger := r.logger.With(zap.String("run_id", runID))

	files, err := r.source.Discover()
	if err != nil {
		return RunSummary{}, nil, fmt.Errorf("discover markdown files: %w", err)
	}
	logger.Info("scan started", zap.Int("files", len(files)))

	reports := make([]FileReport, len(files))
	var group errgroup.Group
	for i, file := range files {
		group.Go(func() error {
			reports[i] = r.checkFile(ctx, file)
			return nil
		})
	}
	// Errors never propagate through the group; each file owns its own
	// outcomes and a failure in one never cancels siblings.
	_ = group.Wait()

	summary := summarize(reports)
	logger.Info("scan finished",
		zap.Int("links", summary.TotalLinks),
		zap.Int("files", summary.TotalFiles),
		zap.Int("failures", len(summary.Failures)),
	)
	return summary, reports, nil
}

// checkFile extracts and verifies the links of a single file. Checks are
// dispatched in extraction order and collected by index, so the report
// preserves source order even though completions interleave.
func (r *Runner) checkFile(ctx context.Context, file string) FileReport {
	report := FileReport{SourceFile: file}

	src, err := r.source.ReadFile(file)
	if err != nil {
		r.logger.Error("read markdown file", zap.String("file", file), zap.Error(err))
		return report
	}

	hrefs := r.extractor.ExtractLinks(src)
	if len(hrefs) == 0 {
		return report
	}

	refs := make([]LinkReference, len(hrefs))
	for i, href := range hrefs {
		refs[i] = LinkReference{Href: href, SourceFile: file}
	}

	report.Outcomes = make([]Outcome, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		target := r.resolver.Resolve(ref.SourceFile, ref.Href)
		wg.Add(1)
		go func() {
			defer wg.Done()
			report.Outcomes[i] = r.dispatcher.Submit(ctx, target, ref.SourceFile)
		}()
	}
	wg.Wait()
	return report
}

// summarize folds per-file reports into run totals on a single
// goroutine, after every check has settled.
func summarize(reports []FileReport) RunSummary {
	summary := RunSummary{TotalFiles: len(reports)}
	for _, report := range reports {
		summary.TotalLinks += len(report.Outcomes)
		for _, outcome := range report.Outcomes {
			if !outcome.Success() {
				summary.Failures = append(summary.Failures, outcome)
			}
		}
	}
	return summary
}

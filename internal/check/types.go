// Package check defines the link verification pipeline: resolution of
// markdown hrefs into fetchable URLs, the two-strategy verifier, the
// bounded dispatcher, and the run-level aggregation types.
package check

// LinkReference is a markdown href together with the file it was found in.
// Values are immutable once created.
type LinkReference struct {
	Href       string
	SourceFile string
}

// ResolvedTarget is the fully qualified URL a LinkReference maps to.
// Original preserves the as-written href for reporting.
type ResolvedTarget struct {
	URL      string
	Original string
}

// Outcome records the result of verifying one resolved target.
// Status is 0 when no HTTP status could be obtained, in which case Err
// carries the final failure. When the fallback probe supplied the status,
// FellBack is set and Err may retain the primary error as diagnostic
// context; classification looks only at Status.
type Outcome struct {
	Status     int
	Original   string
	SourceFile string
	Err        error
	FellBack   bool
}

// Success reports whether the outcome carries a 2xx status.
func (o Outcome) Success() bool {
	return o.Status >= 200 && o.Status < 300
}

// FileReport holds the outcomes for one markdown file in dispatch order.
type FileReport struct {
	SourceFile string
	Outcomes   []Outcome
}

// RunSummary is computed once after every submitted check has settled.
type RunSummary struct {
	TotalLinks int
	TotalFiles int
	Failures   []Outcome
}

// Failed reports whether the run should signal non-zero completion.
func (s RunSummary) Failed() bool {
	return len(s.Failures) > 0
}

package check

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// verifyStage tracks where a target sits in the ranked-strategy sequence.
type verifyStage int

const (
	stageNotTried verifyStage = iota
	stageTriedPrimary
	stageTriedFallback
	stageResolved
)

// Verifier confirms that a resolved target responds, trying rendered
// navigation first and falling back to a HEAD probe only when navigation
// itself errors. A non-2xx status from navigation is a valid answer and
// short-circuits the fallback. The navigation timeout is owned by the
// Navigator implementation; the probe timeout is applied here.
type Verifier struct {
	navigator    Navigator
	prober       Prober
	probeTimeout time.Duration
	logger       *zap.Logger
}

// NewVerifier constructs a Verifier. A zero probe timeout defaults to 10s.
func NewVerifier(navigator Navigator, prober Prober, probeTimeout time.Duration, logger *zap.Logger) *Verifier {
	if probeTimeout <= 0 {
		probeTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Verifier{
		navigator:    navigator,
		prober:       prober,
		probeTimeout: probeTimeout,
		logger:       logger,
	}
}

// Verify walks the strategy sequence for one target and always returns an
// Outcome; per-target failures never escape as errors.
func (v *Verifier) Verify(ctx context.Context, target ResolvedTarget, sourceFile string) Outcome {
	outcome := Outcome{Original: target.Original, SourceFile: sourceFile}

	stage := stageNotTried
	var primaryErr error

	for stage != stageResolved {
		switch stage {
		case stageNotTried:
			NavigationsStarted.Inc()
			status, err := v.navigator.Navigate(ctx, target.URL)
			if err == nil {
				outcome.Status = status
				stage = stageResolved
				continue
			}
			primaryErr = err
			v.logger.Debug("rendered navigation failed, probing",
				zap.String("url", target.URL),
				zap.Error(err),
			)
			stage = stageTriedPrimary
		case stageTriedPrimary:
			if v.prober == nil {
				outcome.Err = primaryErr
				stage = stageResolved
				continue
			}
			status, err := v.probe(ctx, target.URL)
			if err == nil {
				outcome.Status = status
				outcome.Err = primaryErr
				outcome.FellBack = true
				FallbackProbes.Inc()
			} else {
				outcome.Err = err
			}
			stage = stageTriedFallback
		case stageTriedFallback:
			stage = stageResolved
		}
	}

	if !outcome.Success() {
		LinkFailures.Inc()
	}
	return outcome
}

func (v *Verifier) probe(ctx context.Context, url string) (int, error) {
	probeCtx, cancel := context.WithTimeout(ctx, v.probeTimeout)
	defer cancel()
	return v.prober.Head(probeCtx, url)
}

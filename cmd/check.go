package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/docsentry/docsentry/internal/check"
	"github.com/docsentry/docsentry/internal/config"
	"github.com/docsentry/docsentry/internal/gitref"
	"github.com/docsentry/docsentry/internal/logging"
	"github.com/docsentry/docsentry/internal/markdown"
	"github.com/docsentry/docsentry/internal/navigate"
	"github.com/docsentry/docsentry/internal/probe"
	"github.com/docsentry/docsentry/internal/report"
	"github.com/docsentry/docsentry/internal/scan"
)

// errLinksFailed signals a completed run that found broken links. The
// report has already been printed when this is returned.
var errLinksFailed = errors.New("one or more links failed verification")

// newCheckCmd creates and configures the 'check' subcommand.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Verify every markdown link under a documentation root",
		Long: `Scans the root directory for markdown files and verifies each link it
finds, first by rendered navigation in a headless browser and, when
navigation itself fails, by a HEAD probe with browser-like headers.
The full report is always printed; the exit code is non-zero when any
link fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCommand,
	}
	return cmd
}

func runCheckCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if len(args) > 0 {
		cfg.Scan.Root = args[0]
	}

	logger, err := logging.New(cfg.Logging.Development, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	commit := cfg.Repo.Commit
	if commit == "" {
		resolver := gitref.New(ctx, cfg.Repo.Owner, cfg.Repo.Name, cfg.Repo.Token)
		commit, err = resolver.Resolve(ctx, cfg.Repo.Ref)
		if err != nil {
			return fmt.Errorf("resolve repository commit: %w", err)
		}
		logger.Info("resolved commit", zap.String("ref", cfg.Repo.Ref), zap.String("commit", commit))
	}

	source, err := scan.New(afero.NewOsFs(), cfg.Scan.Root, cfg.Scan.Pattern)
	if err != nil {
		return fmt.Errorf("init scanner: %w", err)
	}

	navigator, err := navigate.New(navigate.Config{
		UserAgent:         cfg.Verify.UserAgent,
		AcceptLanguage:    cfg.Verify.AcceptLanguage,
		NavigationTimeout: cfg.NavTimeout(),
	})
	if err != nil {
		return fmt.Errorf("init navigator: %w", err)
	}
	defer navigator.Close()

	prober := probe.New(probe.Config{
		UserAgent:      cfg.Verify.UserAgent,
		AcceptLanguage: cfg.Verify.AcceptLanguage,
		Timeout:        cfg.ProbeTimeout(),
	})

	dispatcher, err := check.NewDispatcher(navigator, prober, check.DispatcherConfig{
		PoolSize:     cfg.Verify.PoolSize,
		ProbeTimeout: cfg.ProbeTimeout(),
	}, logger)
	if err != nil {
		return fmt.Errorf("init dispatcher: %w", err)
	}

	resolver := check.NewResolver(cfg.Repo.Host, cfg.Repo.Owner, cfg.Repo.Name, commit)
	runner := check.NewRunner(source, markdown.NewExtractor(), resolver, dispatcher, logger)

	summary, reports, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run check: %w", err)
	}

	report.Render(os.Stdout, reports, summary)

	if summary.Failed() {
		return errLinksFailed
	}
	return nil
}

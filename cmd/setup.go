package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/extract"
	"github.com/nikogura/resume-builder/pkg/llm"
	"github.com/nikogura/resume-builder/pkg/logging"
	"github.com/nikogura/resume-builder/pkg/metrics"
	"github.com/nikogura/resume-builder/pkg/pipeline"
	"github.com/nikogura/resume-builder/pkg/renderer"
)

// app is everything a command needs, built once from the loaded config.
type app struct {
	cfg      config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	client   *llm.Client
	pipeline *pipeline.Pipeline
	html     *renderer.HTMLRenderer
}

func loadConfig() (cfg config.Config, err error) {
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return cfg, err
	}
	return cfg, err
}

func newLogger(cfg config.Config) (logger *zap.Logger, err error) {
	level := cfg.LogLevel
	if getVerbose() {
		level = "debug"
	}

	logger, err = logging.New(level, cfg.LogFormat)
	if err != nil {
		err = errors.Wrap(err, "failed to create logger")
		return logger, err
	}

	return logger, err
}

// setupApp wires config, logger, provider client, pipeline and renderer.
// attempts overrides the configured attempt count when positive.
func setupApp(attempts int) (a *app, err error) {
	a = &app{}

	a.cfg, err = loadConfig()
	if err != nil {
		return a, err
	}

	a.logger, err = newLogger(a.cfg)
	if err != nil {
		return a, err
	}

	a.metrics = metrics.New()

	var registry *llm.Registry
	registry, err = a.cfg.Registry()
	if err != nil {
		return a, err
	}

	a.client = llm.NewClient(registry, llm.Options{
		Timeout:      a.cfg.Timeout,
		SystemPrompt: a.cfg.SystemPrompt,
		Logger:       a.logger.Named("llm"),
		Metrics:      a.metrics,
	})

	if attempts <= 0 {
		attempts = a.cfg.Attempts
	}

	// A configured backoff of zero means no pause, not the default.
	backoff := a.cfg.Backoff
	if backoff == 0 {
		backoff = -1
	}

	a.pipeline = pipeline.New(a.client, extract.NewExtractor(a.logger.Named("extract")), pipeline.Options{
		Attempts: attempts,
		Backoff:  backoff,
		Logger:   a.logger.Named("pipeline"),
		Metrics:  a.metrics,
	})

	a.html, err = renderer.NewHTMLRenderer(renderer.DefaultLimits(), a.cfg.Accent)
	if err != nil {
		return a, err
	}

	return a, err
}

func (a *app) pdfRenderer() (r *renderer.PDFRenderer) {
	r = &renderer.PDFRenderer{
		ChromePath: a.cfg.PDF.ChromePath,
		Timeout:    a.cfg.PDF.Timeout,
	}
	return r
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (ctx context.Context, cancel context.CancelFunc) {
	ctx, cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx, cancel
}

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/davidhbaek/plamo-translate/internal/metrics"
	"github.com/davidhbaek/plamo-translate/plamo"
)

type translator interface {
	Translate(ctx context.Context, text, srcLang, tgtLang string, params plamo.GenerationParams) (string, error)
}

// Enforce interface compliance
var _ translator = &plamo.Client{}

type env struct {
	client      translator
	logger      *log.Entry
	registry    *prometheus.Registry
	text        string
	srcLang     string
	tgtLang     string
	params      plamo.GenerationParams
	docs        fileList
	jobs        int
	showMetrics bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var errNoInput = errors.New("nothing to translate: pass -t, -d or pipe text on stdin")

func CLI(args []string) int {
	return Run(args, os.Stdin, os.Stdout, os.Stderr)
}

// Run executes the command with explicit standard streams. It returns 2 on
// argument errors and 1 on runtime errors.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := env{stdin: stdin, stdout: stdout, stderr: stderr}
	err := app.fromArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "parsing args: %v\n", err)
		return 2
	}

	if err := app.run(context.Background()); err != nil {
		fmt.Fprintf(stderr, "runtime error: %v\n", err)
		return 1
	}
	return 0
}

func (app *env) fromArgs(args []string) error {
	fl := flag.NewFlagSet("plamo", flag.ContinueOnError)
	fl.SetOutput(app.stderr)

	// The env file has to be loaded before PLAMO_* defaults are read, so it is
	// picked out of args ahead of the full parse.
	envFile := ".env"
	for i, arg := range args {
		if (arg == "-env" || arg == "--env") && i+1 < len(args) {
			envFile = args[i+1]
		} else if v, ok := strings.CutPrefix(arg, "-env="); ok {
			envFile = v
		} else if v, ok := strings.CutPrefix(arg, "--env="); ok {
			envFile = v
		}
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg, err := plamo.LoadConfig(context.Background())
	if err != nil {
		return err
	}

	fl.String("env", envFile, "dotenv file with PLAMO_* settings")

	var text string
	fl.StringVar(&text, "t", "", "text to translate (default: read stdin)")
	fl.StringVar(&text, "text", "", "text to translate (default: read stdin)")

	var src string
	fl.StringVar(&src, "f", plamo.LangEnglish, "source language label")
	fl.StringVar(&src, "from", plamo.LangEnglish, "source language label")

	var tgt string
	fl.StringVar(&tgt, "o", plamo.LangJapanese, "target language label")
	fl.StringVar(&tgt, "to", plamo.LangJapanese, "target language label")

	var textLang string
	fl.StringVar(&textLang, "l", "", "language of the input for ja<->en translation (ja, jp, japanese, en, english); overrides -from/-to")
	fl.StringVar(&textLang, "lang", "", "language of the input for ja<->en translation (ja, jp, japanese, en, english); overrides -from/-to")

	var docs fileList
	fl.Var(&docs, "d", "PDF document to translate page by page (repeatable)")
	fl.Var(&docs, "document", "PDF document to translate page by page (repeatable)")

	fl.StringVar(&cfg.Model, "m", cfg.Model, "model identifier")
	fl.StringVar(&cfg.Model, "model", cfg.Model, "model identifier")
	fl.StringVar(&cfg.BaseURL, "u", cfg.BaseURL, "completions API base URL")
	fl.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "completions API base URL")
	fl.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "per-request timeout")

	params := plamo.DefaultParams()
	fl.Float64Var(&params.Temperature, "temperature", params.Temperature, "sampling temperature")
	fl.IntVar(&params.MaxTokens, "max-tokens", params.MaxTokens, "maximum tokens to generate")

	var topP float64
	fl.Float64Var(&topP, "top-p", -1, "nucleus sampling mass in [0,1]; negative leaves the server default")
	var topK int
	fl.IntVar(&topK, "top-k", -1, "top-k candidate limit; negative leaves the server default")

	var jobs int
	fl.IntVar(&jobs, "j", 2, "pages translated concurrently")
	fl.IntVar(&jobs, "jobs", 2, "pages translated concurrently")

	var verbose bool
	fl.BoolVar(&verbose, "v", false, "log every request")
	fl.BoolVar(&verbose, "verbose", false, "log every request")

	var showMetrics bool
	fl.BoolVar(&showMetrics, "metrics", false, "print request metrics to stderr when done")

	if err := fl.Parse(args); err != nil {
		return err
	}

	if fl.NArg() > 0 && text == "" {
		text = strings.Join(fl.Args(), " ")
	}

	if textLang != "" {
		src, tgt, err = plamo.ResolveLangPair(textLang)
		if err != nil {
			return err
		}
	}

	if topP > 1 {
		return fmt.Errorf("-top-p must be within [0,1], got %v", topP)
	}
	if topP >= 0 {
		params.TopP = plamo.Float64(topP)
	}
	if topK >= 0 {
		params.TopK = plamo.Int(topK)
	}
	if params.MaxTokens <= 0 {
		return fmt.Errorf("-max-tokens must be positive, got %d", params.MaxTokens)
	}
	if jobs < 1 {
		return fmt.Errorf("-jobs must be at least 1, got %d", jobs)
	}

	logger := log.New()
	logger.SetOutput(app.stderr)
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	logger.SetLevel(log.InfoLevel)
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	app.logger = logger.WithField("run_id", uuid.NewString())

	app.registry = prometheus.NewRegistry()
	collector, err := metrics.NewCollector(app.registry)
	if err != nil {
		return err
	}

	client, err := plamo.NewClient(cfg, plamo.WithLogger(app.logger), plamo.WithRecorder(collector))
	if err != nil {
		return err
	}

	app.client = client
	app.text = text
	app.srcLang = src
	app.tgtLang = tgt
	app.params = params
	app.docs = docs
	app.jobs = jobs
	app.showMetrics = showMetrics

	return nil
}

func (app *env) run(ctx context.Context) error {
	if app.showMetrics {
		defer app.dumpMetrics()
	}

	if len(app.docs) > 0 {
		return app.runDocuments(ctx)
	}

	text := app.text
	if text == "" || text == "-" {
		b, err := io.ReadAll(app.stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(b)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return errNoInput
	}

	out, err := app.client.Translate(ctx, text, app.srcLang, app.tgtLang, app.params)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, out)
	return nil
}

func (app *env) runDocuments(ctx context.Context) error {
	for i, path := range app.docs {
		app.logger.WithField("path", path).Info("reading document")

		pages, err := readPDFPages(path)
		if err != nil {
			return err
		}

		translated, err := app.translatePages(ctx, pages)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if len(app.docs) > 1 {
			if i > 0 {
				fmt.Fprintln(app.stdout)
			}
			fmt.Fprintf(app.stdout, "==> %s <==\n", path)
		}
		fmt.Fprintln(app.stdout, strings.Join(translated, "\n\n"))
	}

	return nil
}

// translatePages translates up to app.jobs pages at a time and returns the
// results in page order. The first failure cancels the remaining pages.
func (app *env) translatePages(ctx context.Context, pages []string) ([]string, error) {
	results := make([]string, len(pages))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(app.jobs)
	for i, page := range pages {
		g.Go(func() error {
			out, err := app.client.Translate(ctx, page, app.srcLang, app.tgtLang, app.params)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (app *env) dumpMetrics() {
	families, err := app.registry.Gather()
	if err != nil {
		app.logger.WithField("error", err.Error()).Warn("gathering metrics")
		return
	}

	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(app.stderr, mf); err != nil {
			app.logger.WithField("error", err.Error()).Warn("writing metrics")
			return
		}
	}
}

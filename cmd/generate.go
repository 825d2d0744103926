package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/nikogura/resume-builder/pkg/input"
	"github.com/nikogura/resume-builder/pkg/pipeline"
	"github.com/nikogura/resume-builder/pkg/renderer"
)

//nolint:gochecknoglobals // Cobra boilerplate
var fromSource string

//nolint:gochecknoglobals // Cobra boilerplate
var preferredProvider string

//nolint:gochecknoglobals // Cobra boilerplate
var apiKeys map[string]string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var withPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var offline bool

//nolint:gochecknoglobals // Cobra boilerplate
var attempts int

//nolint:gochecknoglobals // Cobra boilerplate
var generateCmd = &cobra.Command{
	Use:   "generate [description]",
	Short: "Generate a resume from a description",
	Long: `Generate a complete resume from a free-text description.

The description can be given as:
- Arguments (e.g., "CS student with Python skills seeking SWE internship")
- A file, URL or - for stdin via --from
- Pasted on stdin when neither is given

The resume is written as <output-dir>/resume_YYYYMMDD_HHMMSS.html together with
a .json export of the record, and a .pdf when --pdf is set.

Example:
  resume-builder generate "Data scientist with 5 years of ML experience"
  resume-builder generate --from profile.txt --provider together
  resume-builder generate --from https://example.com/about --pdf
  resume-builder generate "Marketing lead" --offline`,
	RunE: runGenerate,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&fromSource, "from", "", "Read the description from a file, URL, or - for stdin")
	generateCmd.Flags().StringVar(&preferredProvider, "provider", "", "Provider to try first (default from config)")
	generateCmd.Flags().StringToStringVar(&apiKeys, "api-key", nil, "Explicit API key per provider, e.g. --api-key groq=gsk_...")
	generateCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	generateCmd.Flags().BoolVar(&withPDF, "pdf", false, "Also print the resume to PDF with headless Chrome")
	generateCmd.Flags().BoolVar(&offline, "offline", false, "Skip the providers and use the built-in template resume")
	generateCmd.Flags().IntVar(&attempts, "attempts", 0, "Generation attempts before falling back (default from config)")
}

func runGenerate(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := signalContext()
	defer cancel()

	var a *app
	a, err = setupApp(attempts)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	var description string
	description, err = readDescription(ctx, args, fromSource)
	if err != nil {
		return err
	}

	if getVerbose() {
		fmt.Printf("Description loaded (%d characters)\n", len(description))
	}

	provider := preferredProvider
	if provider == "" {
		provider = a.cfg.PreferredProvider
	}

	var result pipeline.Result
	withSpinner("Generating resume...", func() {
		result, err = a.pipeline.Generate(ctx, pipeline.Request{
			Description: description,
			Provider:    provider,
			APIKeys:     apiKeys,
			Offline:     offline,
		})
	})
	if err != nil {
		err = errors.Wrap(err, "generation failed")
		return err
	}

	printResult(result)

	var html []byte
	html, err = a.html.Render(result.Record)
	if err != nil {
		return err
	}

	var pdf []byte
	if withPDF {
		withSpinner("Printing PDF...", func() {
			pdf, err = a.pdfRenderer().Render(ctx, html)
		})
		if err != nil {
			return err
		}
	}

	dir := outputDir
	if dir == "" {
		dir = a.cfg.OutputDir
	}

	var artifacts renderer.Artifacts
	artifacts, err = renderer.WriteArtifacts(dir, renderer.Stem(time.Now()), html, result.Record, pdf)
	if err != nil {
		return err
	}

	printArtifacts(artifacts)

	return err
}

// readDescription takes the description from args, then --from, then stdin.
func readDescription(ctx context.Context, args []string, from string) (description string, err error) {
	if len(args) > 0 && from != "" {
		err = errors.New("give the description as arguments or with --from, not both")
		return description, err
	}

	if len(args) > 0 {
		description = strings.TrimSpace(strings.Join(args, " "))
		if description == "" {
			err = pipeline.ErrEmptyDescription
		}
		return description, err
	}

	if from == "" {
		from = input.Stdin
		fmt.Println("Please paste the description below.")
		fmt.Println("When finished, press Ctrl+D (Unix/Mac) or Ctrl+Z then Enter (Windows):")
		fmt.Println()
	} else if getVerbose() {
		fmt.Printf("Loading description from: %s\n", from)
	}

	description, err = input.NewReader().Read(ctx, from)
	if err != nil {
		err = errors.Wrap(err, "failed to read description")
		return description, err
	}

	return description, err
}

func printResult(result pipeline.Result) {
	switch result.Source {
	case pipeline.SourceLLM:
		fmt.Printf("✓ Resume generated by %s (attempt %d, %s extraction)\n", result.Provider, result.Attempts, result.Strategy)
	default:
		fmt.Printf("✓ Resume generated from the %s template\n", result.Bucket.Label())
		if len(result.Failures) > 0 {
			fmt.Printf("  Providers failed %d time(s); last: %s\n", len(result.Failures), result.Failures[len(result.Failures)-1])
		}
	}

	if getVerbose() {
		fmt.Printf("  Request: %s\n", result.RequestID)
		fmt.Printf("  Field: %s\n", result.Bucket)
	}
}

func printArtifacts(artifacts renderer.Artifacts) {
	fmt.Println("\nFiles written:")
	fmt.Printf("  HTML: %s\n", artifacts.HTML)
	fmt.Printf("  JSON: %s\n", artifacts.JSON)
	if artifacts.PDF != "" {
		fmt.Printf("  PDF:  %s\n", artifacts.PDF)
	}
}

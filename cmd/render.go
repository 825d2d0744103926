package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikogura/resume-builder/pkg/config"
	"github.com/nikogura/resume-builder/pkg/renderer"
	"github.com/nikogura/resume-builder/pkg/resume"
)

//nolint:gochecknoglobals // Cobra boilerplate
var renderOutputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var renderPDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var renderCmd = &cobra.Command{
	Use:   "render <record.json>",
	Short: "Render a saved resume record",
	Long: `Render a resume record previously exported by generate (or edited by hand)
to HTML, and optionally PDF. The record goes through the same shape check and
lenient decoding as provider output.

Output files take the record's file name with .html and .pdf extensions and
are written next to it unless --output-dir is given.

Example:
  resume-builder render out/resume_20250314_090000.json --pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOutputDir, "output-dir", "", "Output directory (default is the record's directory)")
	renderCmd.Flags().BoolVar(&renderPDF, "pdf", false, "Also print to PDF with headless Chrome")
}

func runRender(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := signalContext()
	defer cancel()

	recordPath := args[0]

	var cfg config.Config
	cfg, err = loadConfig()
	if err != nil {
		return err
	}

	var rec resume.Record
	rec, err = resume.Load(recordPath)
	if err != nil {
		return err
	}

	var r *renderer.HTMLRenderer
	r, err = renderer.NewHTMLRenderer(renderer.DefaultLimits(), cfg.Accent)
	if err != nil {
		return err
	}

	var html []byte
	html, err = r.Render(rec)
	if err != nil {
		return err
	}

	dir := renderOutputDir
	if dir == "" {
		dir = filepath.Dir(recordPath)
	}
	base := filepath.Join(dir, strings.TrimSuffix(filepath.Base(recordPath), filepath.Ext(recordPath)))

	err = renderer.WriteFile(html, base+".html")
	if err != nil {
		return err
	}
	fmt.Printf("✓ HTML: %s\n", base+".html")

	if !renderPDF {
		return err
	}

	pdfRenderer := &renderer.PDFRenderer{ChromePath: cfg.PDF.ChromePath, Timeout: cfg.PDF.Timeout}

	var pdf []byte
	withSpinner("Printing PDF...", func() {
		pdf, err = pdfRenderer.Render(ctx, html)
	})
	if err != nil {
		return err
	}

	err = renderer.WriteFile(pdf, base+".pdf")
	if err != nil {
		return err
	}
	fmt.Printf("✓ PDF:  %s\n", base+".pdf")

	return err
}

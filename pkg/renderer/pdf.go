package renderer

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// A4 in inches.
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// DefaultPDFTimeout bounds browser start plus printing.
const DefaultPDFTimeout = 60 * time.Second

// PDFRenderer prints HTML to PDF with headless Chrome.
type PDFRenderer struct {
	// ChromePath overrides the browser binary. Falls back to CHROME_PATH,
	// then to chromedp's own lookup.
	ChromePath string
	Timeout    time.Duration
}

// Render prints html as an A4 PDF.
func (r *PDFRenderer) Render(ctx context.Context, html []byte) (pdf []byte, err error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	chromePath := r.ChromePath
	if chromePath == "" {
		chromePath = os.Getenv("CHROME_PATH")
	}
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, timeout)
	defer cancelRun()

	var tmpDir string
	tmpDir, err = os.MkdirTemp("", "resume-pdf-")
	if err != nil {
		err = errors.Wrap(err, "failed to create temp dir")
		return pdf, err
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "index.html")
	err = os.WriteFile(htmlPath, html, 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write HTML for printing")
		return pdf, err
	}

	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) (actionErr error) {
			pdf, _, actionErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(a4Width).
				WithPaperHeight(a4Height).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return actionErr
		}),
	)
	if err != nil {
		err = errors.Wrap(err, "failed to print PDF")
		return pdf, err
	}

	return pdf, err
}

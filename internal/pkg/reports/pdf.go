package reports

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Letter paper with half-inch margins, in inches.
const (
	paperWidth  = 8.5
	paperHeight = 11.0
	pageMargin  = 0.5
)

// ChromePDFRenderer renders report templates to HTML and prints them with headless Chrome.
type ChromePDFRenderer struct {
	html    *HTMLRenderer
	timeout time.Duration
	logger  zerolog.Logger
}

// NewChromePDFRenderer creates a renderer. Each call to RenderPDF starts its own browser.
func NewChromePDFRenderer(html *HTMLRenderer, timeout time.Duration, logger zerolog.Logger) *ChromePDFRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromePDFRenderer{html: html, timeout: timeout, logger: logger}
}

// RenderPDF renders templateName with data and prints it to a Letter-sized PDF.
func (r *ChromePDFRenderer) RenderPDF(ctx context.Context, templateName string, data any) ([]byte, error) {
	body, err := r.html.RenderHTML(templateName, data)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "pca-report-*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary report file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("failed to write temporary report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temporary report file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(chromedp.DefaultExecAllocatorOptions[:], chromedp.DisableGPU)...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	start := time.Now()
	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+tmp.Name()),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(pageMargin).
				WithMarginBottom(pageMargin).
				WithMarginLeft(pageMargin).
				WithMarginRight(pageMargin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		r.logger.Error().Err(err).Str("template", templateName).Msg("Failed to print report to PDF")
		return nil, fmt.Errorf("failed to print report to pdf: %w", err)
	}

	r.logger.Debug().Str("template", templateName).Dur("elapsed", time.Since(start)).Int("bytes", len(pdf)).Msg("Report printed to PDF")
	return pdf, nil
}

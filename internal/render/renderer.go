package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Config holds renderer configuration
type Config struct {
	ChromePath string
	NoSandbox  bool
	Timeout    time.Duration
}

// ChromeRenderer prints work-order documents to PDF with headless Chrome.
// Chrome fetches the signature image by its public URL while laying out the
// page, so a render blocks on that network fetch and fails if it does.
type ChromeRenderer struct {
	config Config
	logger *slog.Logger
	now    func() time.Time
}

// NewChromeRenderer creates a new ChromeRenderer instance
func NewChromeRenderer(config Config, logger *slog.Logger) *ChromeRenderer {
	return &ChromeRenderer{
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Render fills the work-order template and prints it to PDF bytes. The
// result is request-scoped; it is never written to durable storage here.
func (r *ChromeRenderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := buildHTML(doc, r.now())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	pdf, err := r.printToPDF(ctx, html)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Document rendered",
		slog.String("customer", doc.CustomerName),
		slog.Int("pdf_bytes", len(pdf)),
		slog.Duration("elapsed", time.Since(start)),
	)

	return pdf, nil
}

// printToPDF starts a fresh Chrome instance, loads the HTML and prints it.
func (r *ChromeRenderer) printToPDF(ctx context.Context, html string) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "chromedata-*")
	if err != nil {
		return nil, fmt.Errorf("cannot create temp profile dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	allocatorOptions := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(tmpDir),
		// Software rendering avoids GPU issues in minimal container environments.
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.config.ChromePath != "" {
		allocatorOptions = append(allocatorOptions, chromedp.ExecPath(r.config.ChromePath))
	}
	if r.config.NoSandbox {
		allocatorOptions = append(allocatorOptions, chromedp.Flag("no-sandbox", true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions...)
	defer allocCancel()

	chromeCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if r.config.Timeout > 0 {
		chromeCtx, cancel = context.WithTimeout(chromeCtx, r.config.Timeout)
		defer cancel()
	}

	var pdfBuf []byte
	actions := []chromedp.Action{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frame, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frame.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// give the remote signature image a moment to resolve
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	}

	if err := chromedp.Run(chromeCtx, actions...); err != nil {
		return nil, fmt.Errorf("chrome render failed: %w", err)
	}

	return pdfBuf, nil
}

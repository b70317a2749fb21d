package report

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var ErrNoChrome = errors.New("no chromium binary found")

// PDFRenderer turns a standalone HTML document into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, htmlDoc string) ([]byte, error)
}

// PageSettings describes the printed page. Sizes are in inches.
type PageSettings struct {
	Width, Height           float64
	MarginTop, MarginBottom float64
	MarginLeft, MarginRight float64
	Footer                  string
}

const pageCounterFooter = `<div style="width:100%;text-align:center;font-size:9px;color:#666;">` +
	`TOPSIS Result · page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

// A4 portrait with a page counter in the footer.
var A4 = PageSettings{
	Width:        8.27,
	Height:       11.69,
	MarginTop:    0.5,
	MarginBottom: 0.75,
	MarginLeft:   0.45,
	MarginRight:  0.45,
	Footer:       pageCounterFooter,
}

func (p PageSettings) params() *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(p.Width).
		WithPaperHeight(p.Height).
		WithMarginTop(p.MarginTop).
		WithMarginBottom(p.MarginBottom).
		WithMarginLeft(p.MarginLeft).
		WithMarginRight(p.MarginRight)
	if p.Footer != "" {
		params = params.
			WithDisplayHeaderFooter(true).
			WithHeaderTemplate(`<div></div>`).
			WithFooterTemplate(p.Footer)
	}
	return params
}

type ChromiumPDFRenderer struct {
	chromePath string
	timeout    time.Duration
	page       PageSettings
}

// NewChromiumPDFRenderer uses chromePath, or the first well-known Chromium
// install when it is empty.
func NewChromiumPDFRenderer(chromePath string) *ChromiumPDFRenderer {
	if chromePath == "" {
		chromePath = detectChromePath()
	}
	return &ChromiumPDFRenderer{chromePath: chromePath, timeout: 30 * time.Second, page: A4}
}

func (r *ChromiumPDFRenderer) Available() bool { return r.chromePath != "" }

func (r *ChromiumPDFRenderer) Render(ctx context.Context, htmlDoc string) ([]byte, error) {
	if !r.Available() {
		return nil, ErrNoChrome
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var pdf []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL(htmlDoc)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		printTo(&pdf, r.page),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func (r *ChromiumPDFRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(r.chromePath),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
	)
}

func printTo(out *[]byte, settings PageSettings) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		b, _, err := settings.params().Do(ctx)
		if err != nil {
			return err
		}
		*out = b
		return nil
	})
}

func dataURL(htmlDoc string) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
}

func detectChromePath() string {
	for _, p := range []string{"/usr/bin/chromium-browser", "/usr/bin/chromium", "/usr/bin/google-chrome"} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

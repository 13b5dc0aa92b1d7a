package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"slider/marquee"
)

const (
	defaultViewportWidth = 1280
	viewportMargin       = 40
	defaultBrowserWait   = 20 * time.Second
)

// measureScript waits for web fonts and reads every review box. %s is a
// JSON string literal holding the selector.
const measureScript = `(async () => {
	if (document.fonts && document.fonts.ready) {
		await document.fonts.ready;
	}
	return Array.from(document.querySelectorAll(%s)).map((el) => {
		const lh = parseFloat(getComputedStyle(el).lineHeight);
		return {h: el.offsetHeight, lh: isNaN(lh) ? 0 : lh};
	});
})()`

// BrowserMeasurer lays strips out in headless Chrome. One browser process
// is shared; each measurement opens its own tab.
type BrowserMeasurer struct {
	allocator context.Context
	cancel    context.CancelFunc
	logger    *zap.Logger
	width     int64
	timeout   time.Duration

	mu            sync.Mutex
	browser       context.Context
	cancelBrowser context.CancelFunc
	starts        int
}

// NewBrowserMeasurer prepares the allocator. execPath may be empty to let
// chromedp find Chrome. The browser starts lazily on first use.
func NewBrowserMeasurer(execPath string, logger *zap.Logger) *BrowserMeasurer {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-default-browser-check", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("disable-extensions", true),
	)
	if p := strings.TrimSpace(execPath); p != "" {
		opts = append(opts, chromedp.ExecPath(p))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &BrowserMeasurer{
		allocator: allocCtx,
		cancel:    cancel,
		logger:    logger,
		width:     defaultViewportWidth,
		timeout:   defaultBrowserWait,
	}
}

// Close shuts the browser down.
func (b *BrowserMeasurer) Close() {
	b.mu.Lock()
	if b.cancelBrowser != nil {
		b.cancelBrowser()
		b.browser, b.cancelBrowser = nil, nil
	}
	b.mu.Unlock()
	if b.cancel != nil {
		b.cancel()
	}
}

// browserContext starts Chrome on first use and returns the context tabs are
// opened from. A failed start is retried on the next call.
func (b *BrowserMeasurer) browserContext() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil && b.browser.Err() == nil {
		return b.browser, nil
	}
	browserCtx, cancel := chromedp.NewContext(b.allocator)
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	b.browser, b.cancelBrowser = browserCtx, cancel
	b.starts++
	b.logger.Debug("browser started", zap.Int("starts", b.starts))
	return browserCtx, nil
}

func measurementPage(snap marquee.Snapshot) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body style="margin:0">` + snap.Markup + `</body></html>`
}

func (b *BrowserMeasurer) Measure(ctx context.Context, snap marquee.Snapshot) ([]marquee.BoxMetrics, error) {
	if strings.TrimSpace(snap.ReviewSelector) == "" {
		return nil, fmt.Errorf("browser measure: empty review selector")
	}
	browserCtx, err := b.browserContext()
	if err != nil {
		return nil, err
	}
	taskCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	if ctx != nil {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithCancel(taskCtx)
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-taskCtx.Done():
			}
		}()
		defer cancel()
	}
	if b.timeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(taskCtx, b.timeout)
		defer cancel()
	}

	sel, err := json.Marshal(snap.ReviewSelector)
	if err != nil {
		return nil, err
	}
	height := int64(math.Ceil(snap.CardHeight)) + 2*viewportMargin
	if height <= 2*viewportMargin {
		height = int64(marquee.DefaultCardHeight) + 2*viewportMargin
	}
	doc := measurementPage(snap)

	var metrics []marquee.BoxMetrics
	started := time.Now()
	err = chromedp.Run(taskCtx,
		emulation.SetDeviceMetricsOverride(b.width, height, 1, false),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf(measureScript, sel), &metrics, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("browser measure %s: %w", snap.ID, err)
	}
	b.logger.Debug("browser measurement",
		zap.String("id", snap.ID),
		zap.Int("reviews", len(metrics)),
		zap.Duration("took", time.Since(started)),
	)
	return metrics, nil
}

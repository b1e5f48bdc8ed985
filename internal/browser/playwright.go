package browser

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywright starts the driver and launches chromium
func NewPlaywright(ctx context.Context, headless bool) (*PlaywrightManager, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, errors.Wrap(err, "could not start playwright")
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
		Args:     []string{"--no-sandbox"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, errors.Wrap(err, "could not launch chromium")
	}
	return &PlaywrightManager{pw: pw, browser: browser}, nil
}

func (pm *PlaywrightManager) NewContext(cookies []playwright.OptionalCookie) (playwright.BrowserContext, error) {
	bctx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create browser context")
	}
	if len(cookies) > 0 {
		if err := bctx.AddCookies(cookies); err != nil {
			_ = bctx.Close()
			return nil, errors.Wrap(err, "could not add cookies")
		}
	}
	return bctx, nil
}

func (pm *PlaywrightManager) Close() error {
	var errs error
	if pm.browser != nil {
		errs = errors.CombineErrors(errs, pm.browser.Close())
	}
	if pm.pw != nil {
		errs = errors.CombineErrors(errs, pm.pw.Stop())
	}
	return errs
}

// PlaywrightPage adapts a playwright page to Page and records JSON traffic
type PlaywrightPage struct {
	page        playwright.Page
	navTimeout  time.Duration
	screenshots *ScreenshotDebugger
	log         *zap.Logger

	mu        sync.Mutex
	responses []any
	inflight  int

	//bumped on every Goto so late bodies from the previous page are dropped
	gen int
}

func NewPlaywrightPage(page playwright.Page, navTimeout time.Duration, screenshots *ScreenshotDebugger, log *zap.Logger) *PlaywrightPage {
	p := &PlaywrightPage{
		page:        page,
		navTimeout:  navTimeout,
		screenshots: screenshots,
		log:         log,
	}
	page.OnResponse(p.captureResponse)
	return p
}

// captureResponse runs on the driver's event loop, so the body is fetched on
// a separate goroutine
func (p *PlaywrightPage) captureResponse(resp playwright.Response) {
	if !strings.Contains(strings.ToLower(resp.Headers()["content-type"]), "json") {
		return
	}
	p.mu.Lock()
	gen := p.gen
	p.inflight++
	p.mu.Unlock()

	go func() {
		var body any
		err := resp.JSON(&body)

		p.mu.Lock()
		defer p.mu.Unlock()
		p.inflight--
		if err != nil {
			//bodies of redirects and aborted requests are unavailable
			p.log.Debug("skipping unreadable json response", zap.String("url", resp.URL()), zap.Error(err))
			return
		}
		if gen == p.gen {
			p.responses = append(p.responses, body)
		}
	}()
}

// waitPending gives in-flight body reads up to d to finish
func (p *PlaywrightPage) waitPending(d time.Duration) {
	deadline := time.Now().Add(d)
	for {
		p.mu.Lock()
		n := p.inflight
		p.mu.Unlock()
		if n == 0 {
			return
		}
		if time.Now().After(deadline) {
			p.log.Debug("json responses still pending after settle", zap.Int("inflight", n))
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func (p *PlaywrightPage) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.responses = nil
	p.gen++
	p.mu.Unlock()

	if _, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(p.navTimeout.Milliseconds())),
	}); err != nil {
		return errors.Wrapf(err, "navigate to %s", url)
	}
	return nil
}

func (p *PlaywrightPage) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return errors.Wrapf(err, "wait for %q", selector)
	}
	return nil
}

func (p *PlaywrightPage) Settle(ctx context.Context, d time.Duration) {
	if ctx.Err() != nil || d <= 0 {
		return
	}
	p.page.WaitForTimeout(float64(d.Milliseconds()))
	//scroll to trigger lazy loaded sections
	if err := HumanScroll(p.page); err != nil {
		p.log.Debug("scroll failed", zap.Error(err))
	}
	p.waitPending(d)
}

func (p *PlaywrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *PlaywrightPage) URL() string {
	return p.page.URL()
}

func (p *PlaywrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *PlaywrightPage) JSONResponses() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]any, len(p.responses))
	copy(out, p.responses)
	return out
}

func (p *PlaywrightPage) CaptureFailure(name string) error {
	if p.screenshots == nil {
		return nil
	}
	return p.screenshots.Capture(p.page, name)
}

var (
	_ Page            = (*PlaywrightPage)(nil)
	_ FailureCapturer = (*PlaywrightPage)(nil)
)

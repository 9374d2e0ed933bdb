// Package browser implements C6, the Tier-3 Browser Validator: a process-wide
// reusable headless-browser pool that navigates to a candidate's posting page
// and reads the same closed/reposted/applicants/posted-time signals C5 reads
// from raw HTML, but from the rendered DOM, grounded on the teacher's
// internal/scraper/engines/headed/{browser,global_browser_pool}.go.
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sirupsen/logrus"

	"jobscout/internal/ratelimit"
)

// Pool is a bounded, reusable set of headless browser instances shared across
// concurrent Tier-3 validations. Unlike C5's per-request HTTP client, a
// browser process is expensive to start, so instances are checked out and
// returned rather than created per candidate.
type Pool struct {
	launcher     *launcher.Launcher
	mu           sync.Mutex
	idle         []*rod.Browser
	created      int
	maxInstances int
	log          *logrus.Entry
}

// NewPool builds a pool that lazily launches up to maxInstances browsers.
func NewPool(maxInstances int, headless bool, log *logrus.Entry) *Pool {
	if maxInstances <= 0 {
		maxInstances = 2
	}
	l := launcher.New().
		Headless(headless).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-dev-shm-usage").
		Set("disable-gpu")

	return &Pool{
		launcher:     l,
		maxInstances: maxInstances,
		log:          log.WithField("component", "browser_pool"),
	}
}

// acquire checks out an idle browser or launches a new one if under the cap.
// It blocks until one becomes available or ctx is cancelled.
func (p *Pool) acquire(ctx context.Context) (*rod.Browser, error) {
	for {
		p.mu.Lock()
		if n := len(p.idle); n > 0 {
			b := p.idle[n-1]
			p.idle = p.idle[:n-1]
			p.mu.Unlock()
			return b, nil
		}
		if p.created < p.maxInstances {
			p.created++
			p.mu.Unlock()
			b, err := p.launch()
			if err != nil {
				p.mu.Lock()
				p.created--
				p.mu.Unlock()
				return nil, err
			}
			return b, nil
		}
		p.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (p *Pool) release(b *rod.Browser) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = append(p.idle, b)
}

func (p *Pool) launch() (*rod.Browser, error) {
	url, err := p.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	return b, nil
}

// Close tears down every idle browser. Browsers checked out at the time of
// the call are not closed: release returns them to the idle list.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, b := range p.idle {
		b.MustClose()
	}
	p.idle = nil
}

// newStealthPage opens a stealth-mode page with a rotated viewport and
// anti-fingerprint overrides, grounded on createStealthPage.
func newStealthPage(browser *rod.Browser) (*rod.Page, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("create stealth page: %w", err)
	}

	vp := ratelimit.RandomViewport()
	_ = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
	})
	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ratelimit.RandomUserAgent()})

	_ = rod.Try(func() {
		page.MustEval(`() => {
			Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
		}`)
	})

	return page, nil
}

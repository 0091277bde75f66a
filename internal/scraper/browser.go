package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
	"github.com/rs/zerolog/log"
)

// ErrBlocked is returned when a rendered page is a robot check instead of content.
var ErrBlocked = errors.New("robot check detected")

// LaunchBrowser starts a local Chromium and connects to it. The returned
// function closes both.
func LaunchBrowser(headless bool) (*rod.Browser, func(), error) {
	l := launcher.New().Headless(headless)
	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}
	closeFn := func() {
		if err := browser.Close(); err != nil {
			log.Debug().Err(err).Msg("closing browser")
		}
		l.Cleanup()
	}
	return browser, closeFn, nil
}

// Render opens url in a stealth page and returns the rendered DOM. Without
// waitFor it waits for the load event; with it, it waits until the selector
// appears and then stops loading.
func Render(ctx context.Context, browser *rod.Browser, url, waitFor string, timeout time.Duration) (*goquery.Document, error) {
	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if timeout > 0 {
		page = page.Timeout(timeout)
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("navigating to %s: %w", url, err)
	}
	if waitFor == "" {
		if err := page.WaitLoad(); err != nil {
			return nil, fmt.Errorf("failed to load page %s: %w", url, err)
		}
	} else {
		if _, err := page.Element(waitFor); err != nil {
			return nil, fmt.Errorf("waiting for %q on %s: %w", waitFor, url, err)
		}
		// Ads and trackers keep loading long after the content is there.
		if _, err := page.Eval(`() => window.stop()`); err != nil {
			log.Debug().Err(err).Str("url", url).Msg("stopping page load")
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading HTML of %s: %w", url, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	if IsBlocked(doc) {
		return nil, fmt.Errorf("%s: %w", url, ErrBlocked)
	}
	return doc, nil
}

// IsBlocked reports whether a page looks like a robot check or captcha.
func IsBlocked(doc *goquery.Document) bool {
	title := strings.ToLower(doc.Find("title").First().Text())
	if strings.Contains(title, "robot check") || strings.Contains(title, "captcha") ||
		strings.Contains(title, "just a moment") {
		return true
	}
	return doc.Find(`form[action*="captcha"], #challenge-form`).Length() > 0
}

// Pause sleeps for d or until ctx is done.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

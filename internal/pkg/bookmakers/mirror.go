package bookmakers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const mirrorUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// ResolveBaseURL returns the bookmaker's working base URL. Bookmakers that
// rotate domains publish a stable mirror link; the first call follows it
// (HTTP redirects first, then a headless-browser pass for JavaScript
// redirects) and the result is cached for the process lifetime.
func (a *Adapter) ResolveBaseURL(ctx context.Context, timeout time.Duration) string {
	if a.cfg.MirrorURL == "" {
		return a.cfg.BaseURL
	}
	a.mirrorOnce.Do(func() {
		resolved, err := resolveMirror(ctx, a.cfg.MirrorURL, timeout)
		if err != nil {
			slog.Warn("Mirror resolution failed, using configured base URL",
				"bookmaker", a.cfg.ID, "mirror", a.cfg.MirrorURL, "error", err)
			a.resolvedBase = a.cfg.BaseURL
			return
		}
		slog.Info("Resolved bookmaker mirror", "bookmaker", a.cfg.ID, "url", resolved)
		a.resolvedBase = strings.TrimRight(resolved, "/")
	})
	return a.resolvedBase
}

// resolveMirror follows a mirror link to the current domain. Plain HTTP
// redirects are tried first since they are cheap; pages that redirect via
// JavaScript fall through to the headless browser.
func resolveMirror(ctx context.Context, mirrorURL string, timeout time.Duration) (string, error) {
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return nil
		},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirrorURL, nil)
	if err != nil {
		return "", fmt.Errorf("create mirror request: %w", err)
	}
	req.Header.Set("User-Agent", mirrorUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return resolveMirrorWithJS(ctx, mirrorURL, timeout)
	}
	defer resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if finalURL != mirrorURL {
		return finalURL, nil
	}

	// Same URL back: the page may redirect via script.
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err == nil {
			s := string(body)
			if strings.Contains(s, "<script") || strings.Contains(s, "window.location") ||
				strings.Contains(s, "location.href") {
				return resolveMirrorWithJS(ctx, mirrorURL, timeout)
			}
		}
	}
	return finalURL, nil
}

// resolveMirrorWithJS loads the mirror page in headless Chrome and reads the
// location after scripts have run.
func resolveMirrorWithJS(ctx context.Context, mirrorURL string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(mirrorUserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var finalURL string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(mirrorURL),
		chromedp.Sleep(5*time.Second),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return "", fmt.Errorf("headless mirror resolution: %w", err)
	}
	if finalURL == "" || finalURL == "about:blank" {
		return "", fmt.Errorf("headless mirror resolution returned no URL")
	}
	return finalURL, nil
}

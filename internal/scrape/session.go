package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Session is one rendered browsing session. A session is acquired before the
// first request of a call, is owned exclusively by that call, and must be
// closed exactly once on every exit path.
type Session interface {
	// Navigate loads url and waits for the page to settle.
	Navigate(url string, settle time.Duration) error
	// Scroll scrolls to the bottom of the page and pauses so lazy-loaded
	// content can arrive.
	Scroll(pause time.Duration) error
	// HTML returns the current document markup.
	HTML() (string, error)
	Close() error
}

// SessionFactory acquires a new session bound to ctx. Cancelling ctx tears
// the session's browser down.
type SessionFactory func(ctx context.Context) (Session, error)

// chromeSession drives a headless Chrome via chromedp.
type chromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewChromeSessionFactory returns a factory that launches a headless browser
// per session with the given user agent.
func NewChromeSessionFactory(userAgent string) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.UserAgent(userAgent),
			chromedp.WindowSize(1920, 1080),
		)
		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
		taskCtx, cancel := chromedp.NewContext(allocCtx)

		// Start the browser now so acquisition failures surface here, not on
		// the first navigation.
		if err := chromedp.Run(taskCtx); err != nil {
			cancel()
			allocCancel()
			return nil, fmt.Errorf("starting browser: %w", err)
		}
		return &chromeSession{ctx: taskCtx, cancel: cancel, allocCancel: allocCancel}, nil
	}
}

func (s *chromeSession) Navigate(url string, settle time.Duration) error {
	return chromedp.Run(s.ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(settle),
	)
}

func (s *chromeSession) Scroll(pause time.Duration) error {
	return chromedp.Run(s.ctx,
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
		chromedp.Sleep(pause),
	)
}

func (s *chromeSession) HTML() (string, error) {
	var html string
	err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html))
	return html, err
}

func (s *chromeSession) Close() error {
	s.cancel()
	s.allocCancel()
	return nil
}

package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab wraps a rod page with crawl-specific setup: stealth, resource
// blocking, and the interaction primitives used by extraction and probing.
type Tab struct {
	page    *rod.Page
	manager *Manager
}

// NavResult is the outcome of a navigation.
type NavResult struct {
	// FinalURL is the page URL after redirects.
	FinalURL string

	// StatusCode is the HTTP status of the main document, or nil when
	// no document response was observed before the deadline.
	StatusCode *int

	// TimedOut reports that navigation hit the deadline. The page may
	// still hold partially loaded content worth extracting.
	TimedOut bool
}

// OpenTab creates a new stealth tab with the manager's resource blocking
// applied. The caller owns the tab and must Close it.
func (m *Manager) OpenTab() (*Tab, error) {
	b := m.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(m.opts.BlockResources) > 0 {
		applyResourceBlocking(page, m.opts.BlockResources)
	}

	return &Tab{page: page, manager: m}, nil
}

// Goto navigates to the URL and waits for the page to settle, bounded by
// timeout. A deadline hit is reported via NavResult.TimedOut rather than
// an error: partially loaded pages are still worth recording.
func (t *Tab) Goto(ctx context.Context, rawURL string, timeout time.Duration) (NavResult, error) {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Capture the main document's status from the network stream; rod's
	// Navigate does not surface it.
	statusCh := make(chan int, 1)
	wait := t.page.Context(navCtx).EachEvent(func(ev *proto.NetworkResponseReceived) bool {
		if ev.Type == proto.NetworkResourceTypeDocument {
			statusCh <- ev.Response.Status
			return true
		}
		return false
	})
	go wait()

	var res NavResult

	if err := t.page.Context(navCtx).Navigate(rawURL); err != nil {
		if navCtx.Err() != nil {
			res.TimedOut = true
		} else {
			return res, fmt.Errorf("browser: navigate %s: %w", rawURL, err)
		}
	}

	if err := t.page.Context(navCtx).WaitLoad(); err != nil {
		res.TimedOut = true
	}

	// Let late XHR-driven rendering finish, but never wait past the
	// navigation deadline.
	idle := timeout / 4
	if idle > 3*time.Second {
		idle = 3 * time.Second
	}
	t.page.Context(navCtx).Timeout(idle).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	select {
	case status := <-statusCh:
		res.StatusCode = &status
	default:
	}

	info, err := t.page.Context(ctx).Info()
	if err != nil {
		return res, fmt.Errorf("browser: page info: %w", err)
	}
	res.FinalURL = info.URL

	return res, nil
}

// Title returns the document title.
func (t *Tab) Title(ctx context.Context) (string, error) {
	res, err := t.page.Context(ctx).Eval(`() => document.title`)
	if err != nil {
		return "", fmt.Errorf("browser: title: %w", err)
	}
	return res.Value.Str(), nil
}

// HTML returns the serialized DOM as outer HTML.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	res, err := t.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// Eval runs a JS function in the page and returns its result as JSON.
// Callers unmarshal into their own result types.
func (t *Tab) Eval(ctx context.Context, js string, args ...any) ([]byte, error) {
	res, err := t.page.Context(ctx).Evaluate(&rod.EvalOptions{
		JS:           js,
		JSArgs:       args,
		ByValue:      true,
		AwaitPromise: true,
	})
	if err != nil {
		return nil, fmt.Errorf("browser: eval: %w", err)
	}
	raw, err := res.Value.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("browser: eval result: %w", err)
	}
	return raw, nil
}

// Hover moves the mouse over the first element matching the selector.
func (t *Tab) Hover(ctx context.Context, selector string) error {
	el, err := t.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: element %s: %w", selector, err)
	}
	if err := el.Hover(); err != nil {
		return fmt.Errorf("browser: hover %s: %w", selector, err)
	}
	return nil
}

// Click clicks the first element matching the selector with the left
// mouse button.
func (t *Tab) Click(ctx context.Context, selector string) error {
	el, err := t.page.Context(ctx).Element(selector)
	if err != nil {
		return fmt.Errorf("browser: element %s: %w", selector, err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("browser: click %s: %w", selector, err)
	}
	return nil
}

// PressEscape sends the Escape key to the page. Used to dismiss menus and
// modals between probes.
func (t *Tab) PressEscape(ctx context.Context) error {
	if err := t.page.Context(ctx).Keyboard.Press(input.Escape); err != nil {
		return fmt.Errorf("browser: press escape: %w", err)
	}
	return nil
}

// URL returns the tab's current URL.
func (t *Tab) URL(ctx context.Context) (string, error) {
	info, err := t.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("browser: page info: %w", err)
	}
	return info.URL, nil
}

// Screenshot captures a screenshot of the tab.
func (t *Tab) Screenshot(ctx context.Context, fullPage bool) ([]byte, error) {
	data, err := t.page.Context(ctx).Screenshot(fullPage, nil)
	if err != nil {
		return nil, fmt.Errorf("browser: screenshot: %w", err)
	}
	return data, nil
}

// Close closes the tab.
func (t *Tab) Close() error {
	if t.page != nil {
		return t.page.Close()
	}
	return nil
}

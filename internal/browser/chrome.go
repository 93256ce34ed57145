package browser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeOptions configures the headless Chrome session.
type ChromeOptions struct {
	Headless bool
	// UserDataDir points at an existing Chrome profile so the session reuses
	// its cookies (an authenticated LinkedIn session).
	UserDataDir string
}

// Chrome drives a Chrome instance through the DevTools protocol.
type Chrome struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// NewChrome launches a Chrome instance and returns a Driver bound to it.
func NewChrome(ctx context.Context, opts ChromeOptions, logger *zap.Logger) (*Chrome, error) {
	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserDataDir != "" {
		flags = append(flags, chromedp.UserDataDir(opts.UserDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, flags...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Starting the browser eagerly surfaces launch failures here instead of
	// on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, err
	}

	return &Chrome{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	return c.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body"))
}

func (c *Chrome) CurrentURL(ctx context.Context) (string, error) {
	var url string
	err := c.run(ctx, chromedp.Location(&url))
	return url, err
}

func (c *Chrome) Find(ctx context.Context, selector string) (Element, error) {
	elements, err := c.FindAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, ErrNotFound
	}
	return elements[0], nil
}

func (c *Chrome) FindAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	if err := c.run(ctx, chromedp.Nodes(selector, &nodes, byQuery(selector), chromedp.AtLeast(0))); err != nil {
		return nil, translate(err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &chromeElement{driver: c, node: node})
	}
	return elements, nil
}

func (c *Chrome) WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var nodes []*cdp.Node
	err := c.run(waitCtx, chromedp.WaitVisible(selector, byQuery(selector)), chromedp.Nodes(selector, &nodes, byQuery(selector)))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, translate(err)
	}
	if len(nodes) == 0 {
		return nil, ErrNotFound
	}
	return &chromeElement{driver: c, node: nodes[0]}, nil
}

func (c *Chrome) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	if err := c.run(ctx, chromedp.OuterHTML(selector, &html, byQuery(selector))); err != nil {
		return "", translate(err)
	}
	return html, nil
}

func (c *Chrome) Upload(ctx context.Context, selector, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return translate(c.run(ctx, chromedp.SetUploadFiles(selector, []string{abs}, byQuery(selector))))
}

func (c *Chrome) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := c.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return translate(err)
	}
	return os.WriteFile(path, buf, 0o644)
}

func (c *Chrome) Close() error {
	c.cancel()
	c.allocCancel()
	return nil
}

func (c *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	done := make(chan error, 1)
	go func() {
		done <- chromedp.Run(c.ctx, actions...)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

type chromeElement struct {
	driver *Chrome
	node   *cdp.Node
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.driver.run(ctx, chromedp.Text([]cdp.NodeID{e.node.NodeID}, &text, chromedp.ByNodeID))
	return strings.TrimSpace(text), translate(err)
}

func (e *chromeElement) Attr(ctx context.Context, name string) (string, bool, error) {
	var value string
	var ok bool
	err := e.driver.run(ctx, chromedp.AttributeValue([]cdp.NodeID{e.node.NodeID}, name, &value, &ok, chromedp.ByNodeID))
	return value, ok, translate(err)
}

func (e *chromeElement) Click(ctx context.Context) error {
	return translate(e.driver.run(ctx, chromedp.MouseClickNode(e.node)))
}

func (e *chromeElement) SetText(ctx context.Context, value string) error {
	return translate(e.driver.run(ctx,
		chromedp.SetValue([]cdp.NodeID{e.node.NodeID}, "", chromedp.ByNodeID),
		chromedp.SendKeys([]cdp.NodeID{e.node.NodeID}, value, chromedp.ByNodeID),
	))
}

func (e *chromeElement) ScrollIntoView(ctx context.Context) error {
	return translate(e.driver.run(ctx, chromedp.ScrollIntoView([]cdp.NodeID{e.node.NodeID}, chromedp.ByNodeID)))
}

func (e *chromeElement) Find(ctx context.Context, selector string) (Element, error) {
	elements, err := e.FindAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, ErrNotFound
	}
	return elements[0], nil
}

func (e *chromeElement) FindAll(ctx context.Context, selector string) ([]Element, error) {
	var nodes []*cdp.Node
	err := e.driver.run(ctx, chromedp.Nodes(selector, &nodes, byQuery(selector), chromedp.AtLeast(0), chromedp.FromNode(e.node)))
	if err != nil {
		return nil, translate(err)
	}

	elements := make([]Element, 0, len(nodes))
	for _, node := range nodes {
		elements = append(elements, &chromeElement{driver: e.driver, node: node})
	}
	return elements, nil
}

// byQuery picks the chromedp query strategy from the selector shape. XPath
// selectors start with a slash or a parenthesized axis.
func byQuery(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") || strings.HasPrefix(selector, ".//") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

// translate maps chromedp failures onto the package's typed outcomes.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "could not find node"), strings.Contains(msg, "no nodes"):
		return ErrNotFound
	case strings.Contains(msg, "node not visible"), strings.Contains(msg, "not clickable"):
		return ErrNotInteractable
	case strings.Contains(msg, "node ID does not exist"), strings.Contains(msg, "detached"):
		return ErrStale
	default:
		return err
	}
}

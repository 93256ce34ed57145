// Package browser defines the generic page-driver capability the application
// core is written against. Implementations translate their own failures into
// the typed outcomes below so callers can distinguish "field not present"
// from "page never became ready" without knowing the underlying engine.
package browser

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports that an expected element is absent. This is often
	// a legitimate signal (optional field not rendered), not a bug.
	ErrNotFound = errors.New("element not found")
	// ErrTimeout reports that an element never became ready within a bounded
	// wait. Callers decide whether to retry or skip.
	ErrTimeout = errors.New("wait for element timed out")
	// ErrNotInteractable reports that the element exists but cannot be
	// clicked or edited in its current state.
	ErrNotInteractable = errors.New("element not interactable")
	// ErrStale reports that the page changed under a held element reference.
	// Callers should re-read the page rather than retry blindly.
	ErrStale = errors.New("stale element reference")
)

// Element is a handle to a single node on the current page.
type Element interface {
	Text(ctx context.Context) (string, error)
	Attr(ctx context.Context, name string) (string, bool, error)
	Click(ctx context.Context) error
	SetText(ctx context.Context, value string) error
	ScrollIntoView(ctx context.Context) error

	// Find searches within this element's subtree.
	Find(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
}

// Driver exposes the primitive page operations the core consumes. All waits
// are bounded; a Driver never blocks indefinitely.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	CurrentURL(ctx context.Context) (string, error)

	Find(ctx context.Context, selector string) (Element, error)
	FindAll(ctx context.Context, selector string) ([]Element, error)
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)

	// OuterHTML returns the serialized HTML of the first node matching the
	// selector, for callers that parse content instead of walking nodes.
	OuterHTML(ctx context.Context, selector string) (string, error)

	// Upload attaches a local file to the file input matching the selector.
	Upload(ctx context.Context, selector, path string) error

	Screenshot(ctx context.Context, path string) error
	Close() error
}

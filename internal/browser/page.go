package browser

import (
	"context"
	"time"
)

// Page is the narrow view of a rendered page the adapters work against.
// Implementations are not safe for concurrent use; one page serves one source at a time.
type Page interface {
	//Goto navigates and blocks until the DOM is loaded or the navigation timeout hits
	Goto(ctx context.Context, url string) error

	//WaitFor blocks until selector is attached to the DOM or timeout elapses
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	//Settle gives client-side scripts time to render lazy content
	Settle(ctx context.Context, d time.Duration)

	//Content returns the serialised rendered DOM
	Content() (string, error)

	//URL is the final URL after redirects
	URL() string

	Title() (string, error)

	//JSONResponses returns decoded JSON bodies of background requests made since the last Goto
	JSONResponses() []any
}

// FailureCapturer is implemented by pages that can keep evidence of a failed source
type FailureCapturer interface {
	CaptureFailure(name string) error
}

// Package notify announces new submissions to an external chat webhook.
// Delivery is best effort: it runs off the request path, is bounded by a
// timeout, and is never retried.
package notify

import "context"

// Submission is the announcement for one newly posted resource.
type Submission struct {
	ResourceID    string
	ResourceName  string
	SubmitterName string
	Permalink     string
	Review        string
	ThumbnailURL  string
}

// Sink delivers a single announcement.
type Sink interface {
	Send(ctx context.Context, s Submission) error
}

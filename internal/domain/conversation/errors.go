package conversation

import "errors"

var (
	// ErrNotFound reports a conversation id with no stored row. It is the
	// expected outcome for client-supplied bad ids, not an anomaly.
	ErrNotFound = errors.New("conversation not found")

	// ErrContentRequired rejects a blank message body before any storage or
	// provider call happens.
	ErrContentRequired = errors.New("message content is required")

	// ErrTitleRequired rejects a blank rename.
	ErrTitleRequired = errors.New("title is required")
)

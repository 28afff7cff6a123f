package usecase

import "time"

const (
	// maxUpdateRetries bounds the reload-and-retry loop on version conflicts
	maxUpdateRetries = 5

	// updateRetryInterval is the initial backoff between conflict retries
	updateRetryInterval = 20 * time.Millisecond
)

package constants

import "time"

// HTTP client connection pool settings. The service talks to a single
// upstream host, so modest pools are plenty.
const (
	MaxIdleConns        = 64
	MaxIdleConnsPerHost = 16
	IdleConnTimeout     = 90 * time.Second
	KeepAlive           = 30 * time.Second
)

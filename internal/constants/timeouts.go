package constants

import "time"

const (
	// ServerShutdownTimeout bounds graceful HTTP server shutdown.
	ServerShutdownTimeout = 30 * time.Second

	DefaultDialTimeout           = 10 * time.Second
	DefaultTLSHandshakeTimeout   = 10 * time.Second
	DefaultResponseHeaderTimeout = 120 * time.Second
	// DefaultRequestTimeout bounds one generateContent call end to end.
	DefaultRequestTimeout = 300 * time.Second
)

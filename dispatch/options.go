package dispatch

import "time"

// EngineOption configures an Engine during creation.
//
// Example:
//
//	eng, err := dispatch.NewEngine(dispatch.WithFenceTimeout(time.Second))
type EngineOption func(*engineOptions)

type engineOptions struct {
	fenceTimeout  time.Duration
	allowSoftware bool
}

func defaultEngineOptions() engineOptions {
	return engineOptions{
		fenceTimeout:  5 * time.Second,
		allowSoftware: true,
	}
}

// WithFenceTimeout bounds how long Run waits for a dispatch to complete.
func WithFenceTimeout(d time.Duration) EngineOption {
	return func(o *engineOptions) {
		if d > 0 {
			o.fenceTimeout = d
		}
	}
}

// WithSoftwareAdapter controls whether engine creation may fall back to
// a software rasterizer when no hardware GPU is present. Enabled by
// default; disable it to fail fast on machines without a usable GPU.
func WithSoftwareAdapter(allow bool) EngineOption {
	return func(o *engineOptions) {
		o.allowSoftware = allow
	}
}

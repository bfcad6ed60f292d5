package services

import "context"

// persistentContext keeps request values but drops cancellation, for cleanup
// that must run after the caller gave up (lock release, run bookkeeping).
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}

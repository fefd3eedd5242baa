package repokit

import (
	"context"
	"fmt"
	"time"
)

// PingTimeout bounds MustPing when ctx has no deadline
const PingTimeout = 5 * time.Second

// MustPing panics if a dependency does not answer within PingTimeout
func MustPing(ctx context.Context, name string, p interface{ Ping(context.Context) error }) {
	if p == nil {
		panic(fmt.Sprintf("%s: nil dependency", name))
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, PingTimeout)
		defer cancel()
	}
	if err := p.Ping(ctx); err != nil {
		panic(fmt.Sprintf("%s ping failed: %v", name, err))
	}
}

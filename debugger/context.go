package debugger

import (
	"github.com/jetsetilly/test9918/hardware/spec"
)

type context struct {
	spec    spec.Spec
	family  spec.Family
	breaks  []error
	limiter bool
}

func (ctx *context) Spec() spec.Spec {
	return ctx.spec
}

func (ctx *context) Family() spec.Family {
	return ctx.family
}

func (ctx *context) Reset() {
	ctx.breaks = ctx.breaks[:0]
}

func (ctx *context) Break(e error) {
	ctx.breaks = append(ctx.breaks, e)
}

// log entries are always allowed. echoing is decided by the logger
func (ctx *context) AllowLogging() bool {
	return true
}

func (ctx *context) UseLimiter() bool {
	return ctx.limiter
}

package types

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Context carries the base context together with the logger and the
// process-wide knobs every component loop needs. It implements
// context.Context so it can be passed to anything blocking.
type Context struct {
	baseCtx context.Context

	logger   *zap.Logger
	homePath string

	heartbeatInterval time.Duration

	errGrp *errgroup.Group
}

var _ context.Context = Context{}

func NewContext(ctx context.Context, logger *zap.Logger, homePath string) Context {
	return Context{
		baseCtx:  ctx,
		logger:   logger,
		homePath: homePath,

		heartbeatInterval: 5 * time.Minute,
	}
}

func (c Context) Deadline() (deadline time.Time, ok bool) {
	return c.baseCtx.Deadline()
}

func (c Context) Done() <-chan struct{} {
	return c.baseCtx.Done()
}

func (c Context) Err() error {
	return c.baseCtx.Err()
}

func (c Context) Value(key any) any {
	return c.baseCtx.Value(key)
}

func (c Context) WithContext(ctx context.Context) Context {
	c.baseCtx = ctx
	return c
}

func (c Context) WithLogger(logger *zap.Logger) Context {
	c.logger = logger
	return c
}

func (c Context) WithHeartbeatInterval(interval time.Duration) Context {
	c.heartbeatInterval = interval
	return c
}

func (c Context) WithErrGrp(errGrp *errgroup.Group) Context {
	c.errGrp = errGrp
	return c
}

func (c Context) Context() context.Context {
	return c.baseCtx
}

func (c Context) Logger() *zap.Logger {
	return c.logger
}

func (c Context) HomePath() string {
	return c.homePath
}

func (c Context) HeartbeatInterval() time.Duration {
	return c.heartbeatInterval
}

func (c Context) ErrGrp() *errgroup.Group {
	return c.errGrp
}

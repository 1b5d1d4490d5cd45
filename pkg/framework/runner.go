package framework

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/golang/glog"
)

// Runnable is a background worker, e.g. a link pipe or a heartbeat ticker.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Named is implemented by Runnables which want a name in the logs.
type Named interface {
	Name() string
}

type namedRunnable struct {
	Runnable
	name string
}

func (r *namedRunnable) Name() string {
	return r.name
}

// NamedRun attaches a name to a Runnable.
func NamedRun(name string, runnable Runnable) Runnable {
	return &namedRunnable{Runnable: runnable, name: name}
}

// ErrForcedExit is returned by Wait when a second stop signal arrives
// before all Runnables stopped.
var ErrForcedExit = errors.New("forced exit")

// Runner runs Runnables concurrently and collects their errors.
// The first Runnable which stops cancels the rest.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc

	count  int
	errCh  chan error
	exitCh chan struct{}
	exit   sync.Once
}

// NewRunner creates a Runner with a background context.
func NewRunner() *Runner {
	return NewRunnerWith(context.Background())
}

// NewRunnerWith creates a Runner derived from ctx.
func NewRunnerWith(ctx context.Context) *Runner {
	r := &Runner{
		errCh:  make(chan error),
		exitCh: make(chan struct{}),
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	return r
}

// Context is canceled when Stop is called, a stop signal is received,
// or any Runnable stops.
func (r *Runner) Context() context.Context {
	return r.ctx
}

// HandleSignals stops the Runner on SIGINT or SIGTERM. A second signal
// makes Wait return ErrForcedExit immediately.
func (r *Runner) HandleSignals() *Runner {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		glog.Info("stop requested")
		r.cancel()
		<-sigCh
		glog.Error("stop requested again, force exit")
		r.exit.Do(func() { close(r.exitCh) })
	}()
	return r
}

// Go spawns Runnables.
func (r *Runner) Go(runnables ...Runnable) *Runner {
	for _, runnable := range runnables {
		name := "#" + strconv.Itoa(r.count)
		if named, ok := runnable.(Named); ok {
			name = named.Name()
		}
		r.count++
		glog.V(4).Infof("start %s", name)
		go func(runnable Runnable, name string) {
			err := runnable.Run(r.ctx)
			if err != nil && err != context.Canceled {
				glog.Warningf("%s stopped: %v", name, err)
			} else {
				glog.V(4).Infof("%s stopped", name)
			}
			r.cancel()
			r.errCh <- err
		}(runnable, name)
	}
	return r
}

// Stop cancels all Runnables. It doesn't wait.
func (r *Runner) Stop() {
	r.cancel()
}

// Wait waits until all Runnables stop, context.Canceled is not
// considered as an error.
func (r *Runner) Wait() error {
	var errs AggregatedError
	for ; r.count > 0; r.count-- {
		select {
		case <-r.exitCh:
			return ErrForcedExit
		case err := <-r.errCh:
			if err != context.Canceled {
				errs.Add(err)
			}
		}
	}
	return errs.Aggregate()
}

// RunWithContextCancel runs fn which doesn't accept a context. onCancel
// must make fn return, and is only called when ctx is done first.
func RunWithContextCancel(ctx context.Context, onCancel func(), fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if onCancel != nil {
			onCancel()
		}
		<-errCh
		return ctx.Err()
	}
}

// RunWithContext runs fn which can't be canceled, it returns when ctx
// is done without waiting for fn.
func RunWithContext(ctx context.Context, fn func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- fn()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunWithContextCloser runs fn and closes closer either on cancel or
// after fn returns, exactly once.
func RunWithContextCloser(ctx context.Context, closer io.Closer, fn func() error) error {
	var once sync.Once
	closeFn := func() { once.Do(func() { closer.Close() }) }
	defer closeFn()
	return RunWithContextCancel(ctx, closeFn, fn)
}


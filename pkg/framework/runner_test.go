package framework

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunnerStopsAllOnFirstExit(t *testing.T) {
	errBroken := errors.New("broken")
	r := NewRunner()
	r.Go(
		NamedRun("failing", RunFunc(func(context.Context) error { return errBroken })),
		RunFunc(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}),
	)
	err := r.Wait()
	require.Error(t, err)
	require.True(t, errors.Is(err, errBroken))
	require.Equal(t, "broken", err.Error())
}

func TestRunnerStop(t *testing.T) {
	r := NewRunner()
	r.Go(RunFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}))
	r.Stop()
	require.NoError(t, r.Wait())
	require.Error(t, r.Context().Err())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil, errors.New("a"), nil, io.EOF)
	require.Len(t, errs.Errors, 2)
	require.Equal(t, "multiple errors:\n  a\n  EOF", errs.Aggregate().Error())
	require.True(t, errors.Is(errs.Aggregate(), io.EOF))
}

type closeRecorder struct {
	closed chan struct{}
	count  int
}

func (c *closeRecorder) Close() error {
	c.count++
	close(c.closed)
	return nil
}

func TestRunWithContextCloser(t *testing.T) {
	c := &closeRecorder{closed: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := RunWithContextCloser(ctx, c, func() error {
		<-c.closed
		return io.EOF
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, c.count)

	c = &closeRecorder{closed: make(chan struct{})}
	err = RunWithContextCloser(context.Background(), c, func() error { return io.EOF })
	require.Equal(t, io.EOF, err)
	require.Equal(t, 1, c.count)
}

package usecase

import (
	"context"
	"sync"

	"StrikeScope/internal/domain/models"
	drepo "StrikeScope/internal/domain/repository"
	mid "StrikeScope/internal/middleware"
)

// SpotCollector consumes the exchange stream, forwards ticks through
// the pipeline, and tracks the latest spot per symbol for pricing.
type SpotCollector struct {
	stream  drepo.SpotStream
	proc    *TickProcessor
	metrics drepo.Metrics
	pipe    *mid.TickPipeline

	mu     sync.RWMutex
	latest map[string]float64
}

// NewSpotCollector creates a new SpotCollector instance.
func NewSpotCollector(stream drepo.SpotStream, proc *TickProcessor, metrics drepo.Metrics, pipe *mid.TickPipeline) *SpotCollector {
	return &SpotCollector{
		stream:  stream,
		proc:    proc,
		metrics: metrics,
		pipe:    pipe,
		latest:  make(map[string]float64),
	}
}

// IsConnected returns true if the spot stream is connected.
func (c *SpotCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Latest returns the most recent streamed spot price for a symbol.
func (c *SpotCollector) Latest(_ context.Context, symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.latest[symbol]
	return p, ok && p > 0
}

func (c *SpotCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	tickCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, tickCh, errCh)
	return nil
}

func (c *SpotCollector) consume(ctx context.Context, tickCh <-chan *models.SpotTick, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				// Stream goroutine exited; stop selecting on the dead
				// channel until a reconnect replaces it.
				errCh = nil
				continue
			}
			if err != nil {
				c.metrics.RecordError("stream")
				tickCh, errCh = c.reconnect(ctx)
			}
		case t, ok := <-tickCh:
			if !ok {
				tickCh = nil
				continue
			}
			if t == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, t)
			} else {
				_ = c.proc.Process(ctx, t)
			}
			c.mu.Lock()
			c.latest[t.Symbol] = t.Price
			c.mu.Unlock()
			c.metrics.RecordLastSpot(t.Symbol, t.Price)
		}
	}
}

// reconnect re-establishes the stream and returns fresh read channels.
// The erroring stream closes its channels on exit, so the old pair is
// useless after a failure. Retries are paced by the stream's own
// reconnect delay.
func (c *SpotCollector) reconnect(ctx context.Context) (<-chan *models.SpotTick, <-chan error) {
	for ctx.Err() == nil {
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordError("stream_reconnect")
			continue
		}
		return c.stream.Read(ctx)
	}
	return nil, nil
}

// Processor returns the underlying TickProcessor for lifecycle management.
func (c *SpotCollector) Processor() *TickProcessor { return c.proc }

// Shutdown stops the pipeline and closes the stream.
func (c *SpotCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}

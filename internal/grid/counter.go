package grid

import "sync/atomic"

// Counter counts reference function evaluations. It is safe for concurrent
// use and may be shared between generators.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Wrap(f func(float64) float64) func(float64) float64 {
	return func(x float64) float64 {
		c.n.Add(1)
		return f(x)
	}
}

func (c *Counter) Count() int64 {
	return c.n.Load()
}

func (c *Counter) Reset() {
	c.n.Store(0)
}

package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type Logger interface {
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
}

type namedFunc struct {
	name string
	fn   func(ctx context.Context) error
}

// Closer runs registered shutdown functions in reverse registration order.
type Closer struct {
	mu     sync.Mutex
	funcs  []namedFunc
	logger Logger
	done   bool
}

var global = New()

func New() *Closer {
	return &Closer{}
}

func SetLogger(l Logger) { global.SetLogger(l) }

func AddNamed(name string, fn func(ctx context.Context) error) { global.AddNamed(name, fn) }

func CloseAll(ctx context.Context) error { return global.CloseAll(ctx) }

func (c *Closer) SetLogger(l Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

func (c *Closer) AddNamed(name string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.funcs = append(c.funcs, namedFunc{name: name, fn: fn})
}

// CloseAll is safe to call more than once; only the first call runs the funcs.
func (c *Closer) CloseAll(ctx context.Context) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return nil
	}
	c.done = true
	funcs := c.funcs
	c.funcs = nil
	log := c.logger
	c.mu.Unlock()

	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		f := funcs[i]

		if err := f.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", f.name, err))
			if log != nil {
				log.Error(ctx, "failed to close", zap.String("name", f.name), zap.Error(err))
			}
			continue
		}

		if log != nil {
			log.Info(ctx, "closed", zap.String("name", f.name))
		}
	}

	return errors.Join(errs...)
}

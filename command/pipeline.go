package command

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"sync/atomic"
)

// Command is a named state mutation executed through the pipeline
type Command interface {
	Name() string
	Execute(ctx context.Context, params any) (any, error)
}

// Middleware observes every execution
// Hooks are side-effect only; they cannot alter params, results or errors
type Middleware interface {
	Before(ctx context.Context, name string, params any)
	After(ctx context.Context, name string, params, result any, err error)
}

type callKey struct{}

// CallID returns the per-execution id the pipeline attaches to hook contexts
// Zero when ctx did not come from the pipeline
func CallID(ctx context.Context) uint64 {
	id, _ := ctx.Value(callKey{}).(uint64)
	return id
}

// Pipeline dispatches commands by name through registered middleware
//
// Architecture:
//   - Lookup failures surface as ErrCommandNotFound and never reach middleware
//   - Middleware runs Before in registration order and After in reverse
//   - A panicking hook is logged and skipped; command execution is unaffected
type Pipeline struct {
	mu         sync.RWMutex
	commands   map[string]Command
	middleware []Middleware
	calls      atomic.Uint64
	logger     *log.Logger
}

// NewPipeline creates an empty pipeline; a nil logger discards output
func NewPipeline(logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{
		commands: make(map[string]Command),
		logger:   logger,
	}
}

// Register adds cmd under its name; names are unique
func (p *Pipeline) Register(cmd Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	name := cmd.Name()
	if _, dup := p.commands[name]; dup {
		return fmt.Errorf("command %q already registered", name)
	}
	p.commands[name] = cmd
	return nil
}

// Use appends middleware to the chain
func (p *Pipeline) Use(mw Middleware) {
	p.mu.Lock()
	p.middleware = append(p.middleware, mw)
	p.mu.Unlock()
}

// Names returns registered command names sorted
func (p *Pipeline) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.commands))
	for name := range p.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs command name with params
func (p *Pipeline) Execute(ctx context.Context, name string, params any) (any, error) {
	p.mu.RLock()
	cmd, ok := p.commands[name]
	chain := p.middleware
	p.mu.RUnlock()

	if !ok {
		return nil, New(CodeCommandNotFound, name, ErrCommandNotFound.Message)
	}

	ctx = context.WithValue(ctx, callKey{}, p.calls.Add(1))

	for _, mw := range chain {
		p.hook(name, func() { mw.Before(ctx, name, params) })
	}

	result, err := cmd.Execute(ctx, params)

	for i := len(chain) - 1; i >= 0; i-- {
		mw := chain[i]
		p.hook(name, func() { mw.After(ctx, name, params, result, err) })
	}
	return result, err
}

func (p *Pipeline) hook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Printf("[CMD] middleware panic in %s: %v", name, r)
		}
	}()
	fn()
}

// Run executes name and asserts the result type
func Run[R any](ctx context.Context, p *Pipeline, name string, params any) (R, error) {
	var zero R
	result, err := p.Execute(ctx, name, params)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(R)
	if !ok {
		return zero, fmt.Errorf("command %s returned %T", name, result)
	}
	return typed, nil
}

// paramsAs accepts P or *P as the params of command name
func paramsAs[P any](name string, params any) (P, error) {
	var zero P
	switch v := params.(type) {
	case P:
		return v, nil
	case *P:
		if v != nil {
			return *v, nil
		}
	}
	return zero, Wrap(CodeMissingParams, name, ErrMissingParams.Message, fmt.Errorf("expected %T, got %T", zero, params))
}

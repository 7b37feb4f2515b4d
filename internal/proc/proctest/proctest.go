// Package proctest provides a scripted proc.Runner for tests.
package proctest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Call records one invocation of the fake runner.
type Call struct {
	Name  string
	Args  []string
	Stdin string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Response is what the runner returns for a matched command.
type Response struct {
	Stdout string
	Err    error
}

// Runner answers commands by prefix match on the rendered command line.
// Unmatched commands fail.
type Runner struct {
	mu        sync.Mutex
	responses []scripted
	calls     []Call
}

type scripted struct {
	prefix string
	resp   Response
}

// On registers a response for command lines starting with prefix. Earlier
// registrations win.
func (r *Runner) On(prefix string, resp Response) *Runner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, scripted{prefix: prefix, resp: resp})
	return r
}

// Calls returns the recorded invocations.
func (r *Runner) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Run implements proc.Runner.
func (r *Runner) Run(_ context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	call := Call{Name: name, Args: append([]string(nil), args...)}
	if stdin != nil {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		call.Stdin = string(b)
	}

	r.mu.Lock()
	r.calls = append(r.calls, call)
	responses := r.responses
	r.mu.Unlock()

	line := call.Line()
	for _, s := range responses {
		if strings.HasPrefix(line, s.prefix) {
			return []byte(s.resp.Stdout), s.resp.Err
		}
	}
	return nil, fmt.Errorf("proctest: unexpected command %q", line)
}

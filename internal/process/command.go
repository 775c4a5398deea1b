package process

import (
	"io"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Binary string
	Args   []string
	// Env holds extra KEY=VALUE pairs merged over the current environment.
	Env   []string
	Stdin io.Reader
	// Forks marks tools that leave a background child holding stdio open; their stderr is not captured.
	Forks bool
}

func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}

// Finder reports whether an external tool can be executed.
type Finder interface {
	Available(name string) bool
}

// FinderFunc adapts a plain function to Finder.
type FinderFunc func(name string) bool

func (f FinderFunc) Available(name string) bool {
	return f(name)
}

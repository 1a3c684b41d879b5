package process

import (
	"strings"
	"time"
)

// DefaultGracePeriod is how long a canceled child gets between SIGTERM and
// SIGKILL when Command.GracePeriod is zero.
const DefaultGracePeriod = 5 * time.Second

// Command is one invocation of an external tool. The child inherits the
// parent environment and working directory and reads no stdin.
type Command struct {
	Binary      string
	Args        []string
	GracePeriod time.Duration
}

func (c Command) grace() time.Duration {
	if c.GracePeriod > 0 {
		return c.GracePeriod
	}
	return DefaultGracePeriod
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Args...), " ")
}

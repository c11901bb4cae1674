// Package notify is the optional fire-and-forget observer of lifecycle
// events. It consumes the same events as the main pipeline but its output
// is never read and its failures never propagate.
package notify

import (
	"os/exec"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// Event is what an observer receives per lifecycle event.
type Event struct {
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
	Tool      string `json:"tool,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// Notifier is a pure side-effecting sink for lifecycle events.
type Notifier interface {
	Notify(event Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(Event) {}

// Command spawns a shell command per event with the event JSON on stdin.
// The process is detached and never waited on.
type Command struct {
	CommandLine string
}

// FromConfig returns a Command notifier for a configured command line, or
// a Nop when none is configured.
func FromConfig(commandLine string) Notifier {
	if commandLine == "" {
		return Nop{}
	}
	return &Command{CommandLine: commandLine}
}

func (c *Command) Notify(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	cmd := exec.Command("sh", "-c", c.CommandLine)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Debug().Err(err).Msg("notify: stdin pipe failed")
		return
	}
	if err := cmd.Start(); err != nil {
		log.Debug().Err(err).Msg("notify: command start failed")
		return
	}
	_, _ = stdin.Write(data)
	_ = stdin.Close()
	// Detach; the notifier must never block a hook invocation.
	_ = cmd.Process.Release()
}

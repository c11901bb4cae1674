// Package hooks provides the lifecycle-event plumbing shared by every
// ck-sidecar hook binary: stdin event decoding, per-invocation wiring of
// config, storage paths and logging, and the stdout response contract.
//
// The contract with the host: a single JSON event arrives on stdin, a
// single JSON document leaves on stdout with `continue`, `inject` and
// `message` fields. Exit code 0 is success or pass-through; exit code 2 is
// an explicit block. Internal failures are never allowed to surface; a
// hook that cannot do its job exits 0 having done nothing.
package hooks

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/claudekit/sidecar/internal/config"
	"github.com/claudekit/sidecar/internal/notify"
	"github.com/claudekit/sidecar/internal/paths"
)

// Exit codes of the hook contract.
const (
	ExitSuccess = 0
	ExitBlocked = 2
)

// BaseEvent contains the fields common to every lifecycle event.
type BaseEvent struct {
	SessionID     string `json:"session_id"`
	CWD           string `json:"cwd"`
	HookEventName string `json:"hook_event_name"`
}

// Output is the response document written to stdout.
type Output struct {
	Continue bool   `json:"continue"`
	Inject   string `json:"inject,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Result is what a hook handler produces.
type Result struct {
	Inject  string // appended to the assistant's context
	Message string // shown to the user
	Block   bool   // deny the pending action (enforcement gate only)
}

// Context carries the per-invocation wiring handed to handlers.
type Context struct {
	Name      string
	SessionID string
	CWD       string
	Config    *config.Config
	Paths     *paths.Resolver
	Notifier  notify.Notifier
	Raw       []byte
}

// Handler is the hook-specific logic run by Run.
type Handler[T any] func(ctx *Context, event *T) (Result, error)

// Run executes a hook end to end. Malformed input and handler errors both
// degrade to a pass-through response: this subsystem must never be the
// reason the host session stalls or fails.
func Run[T any](name string, handler Handler[T]) {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		passThrough()
		return
	}

	var base BaseEvent
	var event T
	if err := json.Unmarshal(raw, &base); err != nil {
		passThrough()
		return
	}
	if err := json.Unmarshal(raw, &event); err != nil {
		passThrough()
		return
	}

	cfg := config.Load(base.CWD)
	resolver := paths.NewResolver(cfg.ScratchRoot)
	setupLogging(name, resolver, base.SessionID)

	ctx := &Context{
		Name:      name,
		SessionID: base.SessionID,
		CWD:       base.CWD,
		Config:    cfg,
		Paths:     resolver,
		Notifier:  notify.FromConfig(cfg.NotifyCommand),
		Raw:       raw,
	}

	result, err := handler(ctx, &event)
	if err != nil {
		log.Debug().Err(err).Str("hook", name).Msg("handler failed, passing through")
		passThrough()
		return
	}

	if result.Block {
		writeOutput(Output{Continue: false, Message: result.Message})
		fmt.Fprintln(os.Stderr, result.Message)
		os.Exit(ExitBlocked)
	}
	writeOutput(Output{Continue: true, Inject: result.Inject, Message: result.Message})
}

// passThrough emits the do-nothing response.
func passThrough() {
	writeOutput(Output{Continue: true})
}

func writeOutput(out Output) {
	data, err := json.Marshal(out)
	if err != nil {
		fmt.Println(`{"continue":true}`)
		return
	}
	fmt.Println(string(data))
}

// setupLogging points the global logger at the session debug log when
// debug mode is on, and silences it otherwise. Hooks own stdout for the
// response document, so logs can never go there.
func setupLogging(name string, resolver *paths.Resolver, sessionID string) {
	if !config.Debug() {
		log.Logger = zerolog.Nop()
		return
	}
	if err := resolver.EnsureSession(sessionID); err != nil {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("hook", name).Logger()
		return
	}
	f, err := os.OpenFile(resolver.DebugLogPath(sessionID), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("hook", name).Logger()
		return
	}
	log.Logger = zerolog.New(f).With().Timestamp().Str("hook", name).Logger()
}

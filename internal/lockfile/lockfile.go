// Package lockfile implements the per-session advisory lock guarding the
// read-mutate-write sequences of the swap store and the session state store.
//
// The lock is a file created with O_EXCL; overlapping hook invocations for
// the same session contend on it. Acquisition is bounded: callers wait with
// backoff (woken early by an fsnotify remove event when possible) and give
// up after a timeout, because externalization and state updates are
// optimizations that must never stall the host session. A lock left behind
// by a crashed process is reclaimed once it is older than the staleness
// window.
package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ErrTimeout is returned when the lock could not be acquired in time.
var ErrTimeout = errors.New("lockfile: acquisition timed out")

// Options tune acquisition behavior.
type Options struct {
	// Timeout bounds the total wait. Zero means a single attempt.
	Timeout time.Duration
	// StaleAfter is the age past which a held lock is presumed abandoned
	// and forcibly reclaimed.
	StaleAfter time.Duration
	// PollInterval caps how long a single wait-for-release can last.
	PollInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.StaleAfter <= 0 {
		o.StaleAfter = 10 * time.Second
	}
	if o.PollInterval <= 0 {
		o.PollInterval = 25 * time.Millisecond
	}
	return o
}

// Lock is a held session lock.
type Lock struct {
	path  string
	token string
}

type payload struct {
	PID        int       `json:"pid"`
	Token      string    `json:"token"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// Acquire takes the lock at path, waiting up to opts.Timeout.
func Acquire(path string, opts Options) (*Lock, error) {
	opts = opts.withDefaults()
	deadline := time.Now().Add(opts.Timeout)
	token := uuid.NewString()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("lockfile: %w", err)
	}

	interval := opts.PollInterval
	for {
		ok, err := tryCreate(path, token)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Lock{path: path, token: token}, nil
		}

		if reclaimIfStale(path, opts.StaleAfter) {
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrTimeout
		}
		wait := interval
		if wait > remaining {
			wait = remaining
		}
		waitForRelease(path, wait)
		// Back off gradually; contention here is rare and short-lived.
		if interval < 200*time.Millisecond {
			interval *= 2
		}
	}
}

// Release removes the lock file if this process still owns it.
func (l *Lock) Release() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // reclaimed by someone else; nothing to do
		}
		return err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err == nil && p.Token != l.token {
		log.Debug().Str("path", l.path).Msg("lock was reclaimed while held, skipping release")
		return nil
	}
	err = os.Remove(l.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// tryCreate attempts a single exclusive create.
func tryCreate(path, token string) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("lockfile: %w", err)
	}
	defer f.Close()
	data, _ := json.Marshal(payload{PID: os.Getpid(), Token: token, AcquiredAt: time.Now()})
	if _, err := f.Write(data); err != nil {
		os.Remove(path)
		return false, fmt.Errorf("lockfile: %w", err)
	}
	return true, nil
}

// reclaimIfStale removes a lock whose file is older than staleAfter.
// Returns true when the caller should immediately retry.
func reclaimIfStale(path string, staleAfter time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return os.IsNotExist(err)
	}
	if time.Since(info.ModTime()) < staleAfter {
		return false
	}
	log.Debug().Str("path", path).Dur("age", time.Since(info.ModTime())).Msg("reclaiming stale lock")
	// Best effort; a concurrent reclaimer losing the race is fine.
	_ = os.Remove(path)
	return true
}

// waitForRelease blocks up to max waiting for the lock file to disappear.
// It prefers an fsnotify remove event over polling; when no watcher can be
// created it simply sleeps.
func waitForRelease(path string, max time.Duration) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		time.Sleep(max)
		return
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		time.Sleep(max)
		return
	}

	timer := time.NewTimer(max)
	defer timer.Stop()
	for {
		select {
		case ev := <-w.Events:
			if ev.Name == path && ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return
			}
		case <-w.Errors:
			time.Sleep(max)
			return
		case <-timer.C:
			return
		}
	}
}

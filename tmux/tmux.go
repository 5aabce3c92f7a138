// SPDX-FileCopyrightText: 2019 KIM KeepInMind GmbH
//
// SPDX-License-Identifier: MIT

// Package tmux provides an interface for the subset of tmux functions needed
// to find and terminate sessions.
package tmux

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/pipe.v2"
)

const defaultCmdExecTimeout = time.Second * 5

// listFormat makes list-sessions print "<session id>:<attached clients>".
const listFormat = "#{session_id}:#{session_attached}"

var (
	// ErrListSessions is returned when tmux fails to list its sessions for
	// any reason other than the server not running.
	ErrListSessions = errors.New("unable to list tmux sessions")
	// ErrKillSession is returned when tmux fails to terminate a session.
	ErrKillSession = errors.New("unable to kill tmux session")
)

// Session is a tmux session as reported by list-sessions.
type Session struct {
	// ID is the tmux session identifier ("$1"). It is never interpreted.
	ID string
	// Attached is the number of attached clients, exactly as tmux printed it.
	Attached string
}

// Detached returns true if no client is attached to the session. The check
// is a literal comparison with "0".
func (s Session) Detached() bool {
	return s.Attached == "0"
}

// Verify returns an error if it is not able to find the tmux executable.
func Verify() error {
	path, err := exec.LookPath("tmux")
	if err != nil {
		return fmt.Errorf("tmux is not available: %w", err)
	}
	log.Printf("[INFO] using tmux located at: %v", path)
	return nil
}

// Version returns tmux version. Returns an error only if the command cannot
// be executed, does not check the output produced.
func Version() (string, error) {
	p := pipe.Exec("tmux", "-V")
	v, err := pipe.OutputTimeout(p, defaultCmdExecTimeout)
	if err != nil {
		return "", fmt.Errorf("unable to fetch tmux version: %w", err)
	}
	return string(v), nil
}

// NewSession starts a detached tmux session called "name" running "command" and
// returns the identifier tmux assigned to it.
// Note that there are not guarantees that the session will still be running after
// this function returns.
func NewSession(name, command string, args ...string) (string, error) {
	args = append([]string{"new-session", "-d", "-s", name, "-P", "-F", "#{session_id}", command}, args...)
	p := pipe.Exec("tmux", args...)
	id, err := pipe.OutputTimeout(p, defaultCmdExecTimeout)
	if err != nil {
		return "", fmt.Errorf("unable to create new tmux session: %w", err)
	}
	return strings.TrimSpace(string(id)), nil
}

// KillSession destroys a session, terminating all its child processes.
func KillSession(id string) error {
	p := pipe.Exec("tmux", "kill-session", "-t", id)
	if err := pipe.RunTimeout(p, defaultCmdExecTimeout); err != nil {
		return fmt.Errorf("%w %v: %v", ErrKillSession, id, err)
	}
	return nil
}

// ListSessions returns every session known to the tmux server together with
// its attached clients count. If no server is running the list is empty and
// the error nil.
func ListSessions() ([]Session, error) {
	p := pipe.Exec("tmux", "list-sessions", "-F", listFormat)

	stdout, stderr, err := pipe.DividedOutputTimeout(p, defaultCmdExecTimeout)
	if err != nil {
		if noServer(stderr) {
			return []Session{}, nil
		}
		return []Session{}, fmt.Errorf("%w: %v, %v", ErrListSessions, err, strings.TrimSpace(string(stderr)))
	}
	return ParseSessions(stdout), nil
}

// noServer reports whether tmux stderr says there is no server to talk to.
func noServer(stderr []byte) bool {
	return bytes.Contains(stderr, []byte("no server running")) ||
		bytes.Contains(stderr, []byte("error connecting to"))
}

// ParseSessions parses list-sessions output produced with listFormat. Empty
// lines are skipped. Each line is split on its first colon only; lines
// without a colon are logged and dropped.
func ParseSessions(out []byte) []Session {
	acc := []Session{}
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		id, attached, ok := strings.Cut(line, ":")
		if !ok {
			log.Printf("[WARN] ParseSessions: skipping malformed line <%v>", line)
			continue
		}
		acc = append(acc, Session{ID: id, Attached: attached})
	}
	return acc
}

// HasSession returns true if tmux is running a session identified by "id".
func HasSession(id string) bool {
	sessions, err := ListSessions()
	if err != nil {
		log.Printf("[ERROR] HasSession: %v", err)
		return false
	}

	for _, v := range sessions {
		if v.ID == id {
			return true
		}
	}
	return false
}

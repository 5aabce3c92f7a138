// SPDX-FileCopyrightText: 2019 KIM KeepInMind GmbH
//
// SPDX-License-Identifier: MIT

// Package reaper terminates tmux sessions that have no attached clients.
package reaper

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kim-company/tmuxreap/tmux"
)

// SessionManager owns the session table the reaper sweeps.
type SessionManager interface {
	ListSessions() ([]tmux.Session, error)
	KillSession(id string) error
}

// Tmux is the SessionManager backed by the local tmux server.
type Tmux struct{}

func (Tmux) ListSessions() ([]tmux.Session, error) { return tmux.ListSessions() }
func (Tmux) KillSession(id string) error           { return tmux.KillSession(id) }

// Reaper kills detached sessions.
type Reaper struct {
	sm  SessionManager
	out io.Writer
}

// Opt defines the signature of the configuration functions used when
// creating new instances of ``Reaper'' with ``New''.
type Opt func(*Reaper)

// Manager returns an ``Opt'' function which replaces the session manager.
func Manager(sm SessionManager) Opt {
	return func(r *Reaper) {
		r.sm = sm
	}
}

// Output returns an ``Opt'' function which sets where kill notices are
// written.
func Output(w io.Writer) Opt {
	return func(r *Reaper) {
		r.out = w
	}
}

// New is used to instantiate new Reaper instances. Unless overridden it
// talks to tmux and writes notices to stdout.
func New(opts ...Opt) *Reaper {
	r := &Reaper{sm: Tmux{}, out: os.Stdout}
	for _, f := range opts {
		f(r)
	}
	return r
}

// Reap lists the sessions and kills each one whose attached clients count is
// exactly "0", writing a "Killing session <id>" line before every kill.
// Returns the identifiers of the sessions that were killed, in listing order.
// A failed kill is logged and does not stop the sweep; a failed listing is
// returned.
func (r *Reaper) Reap() ([]string, error) {
	sessions, err := r.sm.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("unable to reap sessions: %w", err)
	}

	killed := []string{}
	for _, s := range sessions {
		if !s.Detached() {
			continue
		}
		fmt.Fprintf(r.out, "Killing session %s\n", s.ID)
		if err := r.sm.KillSession(s.ID); err != nil {
			log.Printf("[WARN] %v", err)
			continue
		}
		killed = append(killed, s.ID)
	}
	return killed, nil
}

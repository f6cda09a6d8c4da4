// Package app contains the terminal host: a bubbletea model that owns the
// playback engine and runs every listener hook on its update goroutine.
package app

import "time"

// TickMsg is sent once per second to advance the engine and redraw.
type TickMsg time.Time

// initDoneMsg is sent once the program has started.
type initDoneMsg struct{}

// dispatchMsg carries a function posted to the mailbox by a worker.
type dispatchMsg func()

// mailboxClosedMsg ends the dispatch loop.
type mailboxClosedMsg struct{}

// internal/app/commands.go
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubesync/internal/task"
)

// TickCmd returns a command that sends TickMsg after 1 second.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// WaitDispatch returns a command that waits for the next posted function.
// The update loop re-arms it after running each one.
func WaitDispatch(mb *task.Mailbox) tea.Cmd {
	return func() tea.Msg {
		for {
			if fn, ok := mb.Next(); ok {
				return dispatchMsg(fn)
			}
			select {
			case <-mb.Ready():
			case <-mb.Done():
				if fn, ok := mb.Next(); ok {
					return dispatchMsg(fn)
				}
				return mailboxClosedMsg{}
			}
		}
	}
}

func initDoneCmd() tea.Msg {
	return initDoneMsg{}
}

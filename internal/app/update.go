// internal/app/update.go
package app

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tubesync/internal/errmsg"
	"github.com/llehouerou/tubesync/internal/keymap"
)

const seekStep = 10 * time.Second

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.FocusMsg:
		m.host.foreground = true
		m.host.attention = false
		m.observer.OnViewResumed()
		return m, nil

	case tea.BlurMsg:
		m.host.foreground = false
		return m, nil

	case initDoneMsg:
		m.observer.OnInitDone()
		return m, nil

	case dispatchMsg:
		msg()
		return m, WaitDispatch(m.mailbox)

	case mailboxClosedMsg:
		return m, nil

	case TickMsg:
		m.host.engine.Tick(time.Time(msg))
		return m, TickCmd()

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)
	}

	if m.prompting {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	h := m.host
	h.attention = false

	switch m.keys.Resolve(msg.String()) {
	case keymap.ActionQuit:
		m.Close()
		return m, tea.Quit
	case keymap.ActionPlayPause:
		if h.engine.Active() {
			h.engine.Toggle()
		}
	case keymap.ActionSeekBack:
		if h.engine.Active() {
			h.engine.SeekBy(-seekStep)
		}
	case keymap.ActionSeekForward:
		if h.engine.Active() {
			h.engine.SeekBy(seekStep)
		}
	case keymap.ActionOpen:
		m.prompting = true
		m.prompt.Reset()
		return m, tea.Batch(m.prompt.Focus(), textinput.Blink)
	case keymap.ActionRelease:
		h.release()
	case keymap.ActionToggleSegmentSkip:
		h.toggleSegmentSkip()
	case keymap.ActionToggleDeviceLink:
		h.toggleDeviceLink()
	case keymap.ActionCycleRepeat:
		h.cycleRepeat()
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		m.prompting = false
		m.prompt.Blur()
		input := m.prompt.Value()
		v, length, err := parseOpenInput(input)
		if err != nil {
			m.host.ShowMessage(errmsg.FormatWith(errmsg.OpPlaybackOpen, input, err))
			return m, nil
		}
		m.host.openVideo(v, length)
		return m, nil
	case "ctrl+c":
		m.Close()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

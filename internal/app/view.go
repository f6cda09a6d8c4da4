// internal/app/view.go
package app

import (
	"fmt"
	"strings"

	"github.com/llehouerou/tubesync/internal/keymap"
	"github.com/llehouerou/tubesync/internal/playback"
	"github.com/llehouerou/tubesync/internal/skip"
	"github.com/llehouerou/tubesync/internal/ui/render"
	"github.com/llehouerou/tubesync/internal/ui/styles"
)

var helpLine = keymap.HelpLine(keymap.All)

// View renders the application UI.
func (m Model) View() string {
	t := styles.T()
	s := t.S()
	width := m.width
	if width <= 0 {
		width = 80
	}

	var lines []string

	flags := strings.Join([]string{
		t.Toggle("skip", m.host.prefs.SegmentSkip),
		t.Toggle("link", m.host.prefs.DeviceLink),
		s.Muted.Render("repeat:" + m.host.prefs.Repeat.String()),
	}, "  ")
	lines = append(lines, render.Row(styles.Gradient("tubesync", t.Primary, t.Secondary), flags, width), "")

	lines = append(lines, m.renderSession(width)...)
	lines = append(lines, "")

	if m.host.attention {
		lines = append(lines, s.Warning.Render("Remote device wants attention"))
	}
	if m.prompting {
		lines = append(lines, m.prompt.View())
	} else if m.host.status != "" {
		style := s.Muted
		if m.host.statusLong {
			style = s.Base
		}
		lines = append(lines, style.Render(render.Truncate(m.host.status, width)))
	} else {
		lines = append(lines, "")
	}

	lines = append(lines, s.Subtle.Render(render.Truncate(helpLine, width)))
	return strings.Join(lines, "\n")
}

func (m Model) renderSession(width int) []string {
	s := styles.T().S()
	e := m.host.engine

	if !e.Active() {
		return []string{s.Muted.Render("Nothing playing. Press o to open a video."), ""}
	}

	v := e.Video()
	title := v.Title
	if title == "" {
		title = v.ID
	}
	if v.Author != "" {
		title = v.Author + " - " + title
	}
	head := s.Playing.Render(render.Truncate(title, width))
	if v.Remote {
		head += s.Muted.Render("  (remote)")
	}

	info := []string{s.Base.Render(render.ProgressBar(e.Position(), e.Duration(), width, e.IsPlaying()))}
	if detail := m.sessionDetail(v); detail != "" {
		info = append(info, s.Subtle.Render(render.Truncate(detail, width)))
	}
	return append([]string{head}, info...)
}

func (m Model) sessionDetail(v *playback.Video) string {
	var parts []string
	if m.host.playlist != "" {
		parts = append(parts, "playlist "+m.host.playlist)
	}
	switch m.skipper.Phase() {
	case skip.PhaseFetching:
		parts = append(parts, "loading segments")
	case skip.PhaseWatching:
		parts = append(parts, fmt.Sprintf("%d segments", len(m.skipper.Segments())))
	case skip.PhaseIdle:
	}
	if len(parts) == 0 {
		return v.ID
	}
	return v.ID + " · " + strings.Join(parts, " · ")
}

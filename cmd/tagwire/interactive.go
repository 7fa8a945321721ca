package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/audiotag/tagwire/frame"
	"github.com/audiotag/tagwire/mempool"
	"github.com/audiotag/tagwire/tags"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	fieldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// fieldRef exposes one record field to the inspector. Exactly one of str
// and num is set.
type fieldRef struct {
	name string
	str  *string
	num  *uint32
}

func recordFields(td *tags.TagData) []fieldRef {
	return []fieldRef{
		{name: "title", str: &td.Title},
		{name: "artist", str: &td.Artist},
		{name: "album", str: &td.Album},
		{name: "albumArtist", str: &td.AlbumArtist},
		{name: "composer", str: &td.Composer},
		{name: "genre", str: &td.Genre},
		{name: "comment", str: &td.Comment},
		{name: "year", num: &td.Year},
		{name: "track", num: &td.Track},
		{name: "disc", num: &td.Disc},
		{name: "bpm", num: &td.BPM},
		{name: "bitrate", num: &td.Bitrate},
		{name: "sampleRate", num: &td.SampleRate},
		{name: "channels", num: &td.Channels},
		{name: "length", num: &td.Length},
		{name: "lengthMs", num: &td.LengthMs},
	}
}

func (f fieldRef) value() string {
	if f.str != nil {
		return *f.str
	}
	return strconv.FormatUint(uint64(*f.num), 10)
}

func (f fieldRef) set(v string) error {
	if f.str != nil {
		*f.str = v
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return fmt.Errorf("%s: %w", f.name, err)
	}
	*f.num = uint32(n)
	return nil
}

type modelState int

const (
	stateBrowse modelState = iota
	stateEdit
)

type inspectorModel struct {
	err      error
	filename string
	arena    *mempool.Arena
	record   *tags.TagData
	fields   []fieldRef
	input    textinput.Model
	status   string
	selected int
	dirty    bool
	state    modelState
}

type loadedMsg struct {
	err    error
	arena  *mempool.Arena
	record *tags.TagData
}

func newInspectorModel(filename string) *inspectorModel {
	return &inspectorModel{filename: filename, state: stateBrowse}
}

func (m *inspectorModel) Init() tea.Cmd {
	return m.loadFrame
}

func (m *inspectorModel) loadFrame() tea.Msg {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	payload, err := frame.Payload(data)
	if err != nil {
		return loadedMsg{err: err}
	}

	arena := mempool.NewArena(len(payload))
	record, err := tags.Decode(payload, arena)
	if err != nil {
		arena.Release()
		return loadedMsg{err: err}
	}

	return loadedMsg{arena: arena, record: record}
}

func (m *inspectorModel) saveFrame() error {
	payload, err := tags.AppendEncode(m.record, nil)
	if err != nil {
		return err
	}
	framed, err := frame.AppendFrame(nil, payload)
	if err != nil {
		return err
	}
	return os.WriteFile(m.filename, framed, 0o644)
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.arena != nil {
				m.arena.Release()
			}
			return m, tea.Quit

		case "q":
			if m.state == stateBrowse {
				if m.arena != nil {
					m.arena.Release()
				}
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateBrowse && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateBrowse && m.selected < len(m.fields)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateBrowse:
				if m.record == nil {
					break
				}
				f := m.fields[m.selected]
				ti := textinput.New()
				ti.Prompt = f.name + ": "
				ti.SetValue(f.value())
				ti.Width = 48
				ti.Focus()
				m.input = ti
				m.status = ""
				m.state = stateEdit

			case stateEdit:
				if err := m.fields[m.selected].set(m.input.Value()); err != nil {
					m.status = errorStyle.Render(err.Error())
				} else {
					m.dirty = true
					m.status = ""
				}
				m.state = stateBrowse
			}

		case "esc":
			if m.state == stateEdit {
				m.state = stateBrowse
				m.status = ""
			}

		case "w":
			if m.state == stateBrowse && m.record != nil {
				if err := m.saveFrame(); err != nil {
					m.status = errorStyle.Render(err.Error())
				} else {
					m.dirty = false
					m.status = statusStyle.Render("written to " + m.filename)
				}
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.arena = msg.arena
		m.record = msg.record
		m.fields = recordFields(m.record)
	}

	if m.state == stateEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *inspectorModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.record == nil {
		return "Loading frame..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Tag Frame Inspector"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	if m.dirty {
		b.WriteString(" *")
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateBrowse:
		for i, f := range m.fields {
			line := fmt.Sprintf("%-12s %s", fieldStyle.Render(f.name), valueStyle.Render(f.value()))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> "))
				b.WriteString(line)
			} else {
				b.WriteString("  ")
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.status != "" {
			b.WriteString(m.status)
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • w write • q quit"))

	case stateEdit:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter apply • esc cancel"))
	}

	return b.String()
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInspectorModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

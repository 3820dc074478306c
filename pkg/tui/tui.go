// Package tui provides a terminal user interface for mxl2mei
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/mxl2mei/pkg/converter"
)

// Engraving-inspired color scheme (ink on manuscript paper)
var (
	inkBlue    = lipgloss.Color("#4F7CAC")
	staffGold  = lipgloss.Color("#E0B04A")
	paperWhite = lipgloss.Color("#EDE6D6")
	darkGray   = lipgloss.Color("#2B2B2B")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(paperWhite).
			Background(inkBlue).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(paperWhite).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(staffGold).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(staffGold).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E05A47")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(staffGold)

	successStyle = lipgloss.NewStyle().
			Foreground(inkBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(inkBlue).
			BorderBackground(darkGray).
			Padding(1, 2)
)

// maxWarningLines caps the warnings listed on the result screen
const maxWarningLines = 5

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	ToFormat    converter.Format
}

var menuItems = []MenuItem{
	{Title: "MusicXML → MEI", Description: "Convert a .musicxml, .xml or .mxl score to an MEI document", ToFormat: converter.FormatMEI},
	{Title: "MusicXML → MIDI", Description: "Render a MIDI preview of a MusicXML score", ToFormat: converter.FormatMIDI},
	{Title: "Exit", Description: "Exit the application"},
}

var musicXMLTypes = []string{".musicxml", ".xml", ".mxl"}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	conv         *converter.Converter
	selectedFile string
	conversion   MenuItem
	result       converter.ConversionResult
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	result converter.ConversionResult
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model that converts with conv
func New(conv *converter.Converter) Model {
	if conv == nil {
		conv = converter.New()
	}

	// Initialize file picker
	fp := filepicker.New()
	fp.AllowedTypes = musicXMLTypes
	fp.CurrentDirectory, _ = os.Getwd()

	// Initialize spinner
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(staffGold)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		conv:       conv,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle file picker state first - it needs to receive all messages
	if m.state == StateFilePicker {
		// Check for escape/quit keys first
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		// Pass all other messages to the file picker
		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		// Check if file was selected
		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.result = msg.result
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if m.menuIndex == len(menuItems)-1 {
			return m, tea.Quit
		}
		m.conversion = menuItems[m.menuIndex]
		m.state = StateFilePicker
		m.filePicker.AllowedTypes = musicXMLTypes
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.result = converter.ConversionResult{}
		m.selectedFile = ""
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) performConversion() tea.Cmd {
	conv, input, target := m.conv, m.selectedFile, m.conversion.ToFormat
	return func() tea.Msg {
		output := converter.OutputPath(input, target)
		result, err := conv.ConvertFile(input, output)
		done := converter.ConversionResult{Format: target, Result: result, Error: err}
		if err == nil {
			done.Filename = output
		}
		return conversionDoneMsg{result: done}
	}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	// Header
	header := asciiLogo()
	s.WriteString(header)
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	// Footer help
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT CONVERSION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(staffGold).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT MUSICXML FILE "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	s.WriteString(fmt.Sprintf("%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedFile)))
	s.WriteString(statusStyle.Render(fmt.Sprintf("  musicxml → %s", m.conversion.ToFormat)))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.result.Error != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.result.Error.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Input:  %s\n", filepath.Base(m.selectedFile)))
		s.WriteString(fmt.Sprintf("Output: %s", filepath.Base(m.result.Filename)))
		if r := m.result.Result; r != nil {
			if r.Title != "" {
				s.WriteString(fmt.Sprintf("\nTitle:  %s", r.Title))
			}
			s.WriteString(fmt.Sprintf("\nParts:  %d   Measures: %d", r.Parts, r.Measures))
			s.WriteString(m.viewWarnings())
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func (m Model) viewWarnings() string {
	warnings := m.result.Result.Warnings
	if len(warnings) == 0 {
		return ""
	}

	var s strings.Builder
	s.WriteString("\n\n")
	s.WriteString(warnStyle.Render(fmt.Sprintf("⚠ %d warning(s)", len(warnings))))
	for i, w := range warnings {
		if i == maxWarningLines {
			s.WriteString(fmt.Sprintf("\n  … and %d more", len(warnings)-maxWarningLines))
			break
		}
		s.WriteString(fmt.Sprintf("\n  %s", w.String()))
	}
	return s.String()
}

func asciiLogo() string {
	logo := `
   __  __ __  __ _     ____    __  __ _____ ___
  |  \/  |\ \/ /| |   |___ \  |  \/  | ____|_ _|
  | |\/| | \  / | |     __) | | |\/| |  _|  | |
  | |  | | /  \ | |___ / __/  | |  | | |___ | |
  |_|  |_|/_/\_\|_____|_____| |_|  |_|_____|___|
`
	return lipgloss.NewStyle().Foreground(inkBlue).Render(logo)
}

// Run starts the TUI application
func Run(conv *converter.Converter) error {
	p := tea.NewProgram(New(conv), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

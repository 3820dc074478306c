package tui

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/james-see/mxl2mei/pkg/converter"
	"github.com/james-see/mxl2mei/pkg/converter/engine"
)

func testModel() Model {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(converter.New(converter.WithLogger(logger)))
}

func press(m Model, key tea.KeyMsg) (Model, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(Model), cmd
}

func TestMenuNavigation(t *testing.T) {
	m := testModel()
	down := tea.KeyMsg{Type: tea.KeyDown}
	up := tea.KeyMsg{Type: tea.KeyUp}

	m, _ = press(m, up)
	assert.Equal(t, 0, m.menuIndex)

	for i := 0; i < len(menuItems)+2; i++ {
		m, _ = press(m, down)
	}
	assert.Equal(t, len(menuItems)-1, m.menuIndex)

	m, _ = press(m, up)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateFilePicker, m.state)
	assert.Equal(t, converter.FormatMIDI, m.conversion.ToFormat)
	assert.Equal(t, musicXMLTypes, m.filePicker.AllowedTypes)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, StateMenu, m.state)
}

func TestMenuExit(t *testing.T) {
	m := testModel()
	m.menuIndex = len(menuItems) - 1

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestPerformConversion(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "converter", "testdata", "duet.musicxml"))
	require.NoError(t, err)
	input := filepath.Join(t.TempDir(), "duet.musicxml")
	require.NoError(t, os.WriteFile(input, data, 0644))

	m := testModel()
	m.selectedFile = input
	m.conversion = menuItems[0]

	msg := m.performConversion()()
	done, ok := msg.(conversionDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.result.Error)
	assert.Equal(t, converter.OutputPath(input, converter.FormatMEI), done.result.Filename)
	assert.FileExists(t, done.result.Filename)
	assert.Equal(t, "Test Symphony", done.result.Result.Title)

	next, _ := m.Update(done)
	m = next.(Model)
	assert.Equal(t, StateResult, m.state)
	assert.Contains(t, m.View(), "Conversion complete")
	assert.Contains(t, m.View(), "Test Symphony")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, StateMenu, m.state)
	assert.Empty(t, m.selectedFile)
}

func TestViewResultError(t *testing.T) {
	m := testModel()
	m.state = StateResult
	m.result = converter.ConversionResult{Error: errors.New("boom")}

	assert.Contains(t, m.View(), "Conversion failed: boom")
}

func TestViewWarnings(t *testing.T) {
	var warnings []engine.Warning
	for i := 0; i < maxWarningLines+2; i++ {
		warnings = append(warnings, engine.Warning{Code: engine.WarnDuration, Message: "odd"})
	}

	m := testModel()
	m.state = StateResult
	m.result = converter.ConversionResult{Result: &converter.Result{Warnings: warnings}}

	view := m.View()
	assert.Contains(t, view, "7 warning(s)")
	assert.Contains(t, view, "and 2 more")
}

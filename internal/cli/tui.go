package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/techpath/pkg/errors"
	"github.com/matzehuels/techpath/pkg/replay"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// PlayerListModel - Interactive player selection
// =============================================================================

// PlayerListModel is the bubbletea model for interactive player selection.
type PlayerListModel struct {
	Players  []replay.PlayerSummary
	Cursor   int
	Selected *replay.PlayerSummary
}

// NewPlayerListModel creates a new player list model.
func NewPlayerListModel(players []replay.PlayerSummary) PlayerListModel {
	return PlayerListModel{Players: players}
}

func (m PlayerListModel) Init() tea.Cmd {
	return nil
}

func (m PlayerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Players)-1 {
				m.Cursor++
			}
		case "enter":
			if len(m.Players) == 0 {
				return m, tea.Quit
			}
			p := m.Players[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m PlayerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Player"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	for i, p := range m.Players {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		winner := " "
		if p.IsWinner {
			winner = StyleSuccess.Render(iconWinner)
		}
		line := fmt.Sprintf("%s%d  %-20s %-8s", cursor, p.ID, p.Name, p.Race)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString(" " + winner + " " + listDimStyle.Render(fmt.Sprintf("%d events", p.Events)))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Player Selection
// =============================================================================

// selectPlayer asks which player to draw. On a terminal it shows the
// interactive list; otherwise it prints the player table and reads an id from
// in.
func selectPlayer(players []replay.PlayerSummary, in io.Reader) (int, error) {
	if len(players) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidReplay, "replay contains no players")
	}
	if f, ok := in.(*os.File); ok && isTerminal(f) && isTerminal(os.Stdout) {
		return pickPlayer(players)
	}
	printPlayers("", players)
	fmt.Fprint(out, "Enter player ID: ")
	return readPlayerID(in)
}

// pickPlayer runs the interactive list and returns the chosen id.
func pickPlayer(players []replay.PlayerSummary) (int, error) {
	final, err := tea.NewProgram(NewPlayerListModel(players)).Run()
	if err != nil {
		return 0, fmt.Errorf("player picker: %w", err)
	}
	m, ok := final.(PlayerListModel)
	if !ok || m.Selected == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no player selected")
	}
	return m.Selected.ID, nil
}

// readPlayerID reads a single player id from the first line of r.
func readPlayerID(r io.Reader) (int, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("read player id: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no player id given")
	}
	id, err := strconv.Atoi(line)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "player id must be an integer, got %q", line)
	}
	if err := errors.ValidatePlayerID(id); err != nil {
		return 0, err
	}
	return id, nil
}

package main

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxColumnWidth = 48

// TableModel is the interactive table shown with --interactive
type TableModel struct {
	title string
	table table.Model
	quit  bool
}

// NewTableModel builds a scrollable table from headers and rows
func NewTableModel(title string, headers []string, rows [][]string, height int) TableModel {
	widths := columnWidths(headers, rows)
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		w := widths[i]
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		columns[i] = table.Column{Title: h, Width: w}
	}
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = table.Row(r)
	}

	if height <= 0 || height > len(rows)+1 {
		height = len(rows) + 1
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("69")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("63"))

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithStyles(styles),
	)
	return TableModel{title: title, table: t}
}

// Init implements tea.Model
func (m TableModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m TableModel) View() string {
	if m.quit {
		return ""
	}

	baseStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("69")).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)

	return titleStyle.Render(m.title) + "\n" + baseStyle.Render(m.table.View()) + "\n  q: quit  ↑/↓: scroll\n"
}

// runInteractive shows the table until the user quits
func runInteractive(in io.Reader, out io.Writer, model TableModel) error {
	_, err := tea.NewProgram(model, tea.WithInput(in), tea.WithOutput(out)).Run()
	return err
}

func columnWidths(headers []string, rows [][]string) []int {
	n := len(headers)
	for _, row := range rows {
		if len(row) > n {
			n = len(row)
		}
	}
	widths := make([]int, n)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h) + 2
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell) + 2; w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// RenderStaticTable renders a bordered table. The header row is omitted
// when headers is empty.
func RenderStaticTable(title string, headers []string, rows [][]string) string {
	borderColor := lipgloss.Color("69")
	headerColor := lipgloss.Color("230")
	headerBgColor := lipgloss.Color("63")
	primaryColor := lipgloss.Color("229")

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(primaryColor).
		Bold(true)

	headerStyle := lipgloss.NewStyle().
		Foreground(headerColor).
		Background(headerBgColor)

	colWidths := columnWidths(headers, rows)

	var lines []string
	if len(headers) > 0 {
		var headerCells []string
		for i, h := range headers {
			headerCells = append(headerCells, lipgloss.NewStyle().Width(colWidths[i]).Render(h))
		}
		lines = append(lines, headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)))
	}

	for _, row := range rows {
		var cells []string
		for i, cell := range row {
			cells = append(cells, lipgloss.NewStyle().Width(colWidths[i]).Render(cell))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	content := strings.Join(lines, "\n")
	if title != "" {
		content = titleStyle.Render(title) + "\n" + content
	}

	return borderStyle.Render(content)
}

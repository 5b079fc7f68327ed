package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/promptledger/promptledger/internal/models"
	"github.com/promptledger/promptledger/internal/ui/components"
	"github.com/promptledger/promptledger/internal/ui/styles"
)

// View renders the history browser.
func (m *Model) View() string {
	if m.loading {
		return m.renderLoading()
	}
	if m.errorMsg != "" {
		return m.renderError()
	}
	if len(m.generations) == 0 {
		return m.renderEmpty()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTable(),
		m.renderStats(),
		m.renderHelp(),
	)
	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.spinner.View() + " Loading ledger...")
}

func (m *Model) renderError() string {
	content := fmt.Sprintf("%s %s",
		styles.ErrorTextStyle.Render("Error:"),
		m.errorMsg,
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("Ledger"),
		"",
		styles.HelpStyle.Render("No generations recorded yet."),
		styles.HelpStyle.Render("Run `promptledger ask` to record one."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	return styles.TitleStyle.Render(fmt.Sprintf("Ledger — last %d generations", len(m.generations)))
}

func (m *Model) renderTable() string {
	header := fmt.Sprintf("%-5s %-19s %-8s %-16s %8s  %s",
		"ID", "TIME", "STATUS", "MODEL", "TOKENS", "PROMPT")

	rows := []string{styles.HeaderRowStyle.Render(header)}
	for _, g := range m.generations {
		rows = append(rows, m.renderRow(g))
	}

	return strings.Join(rows, "\n")
}

func (m *Model) renderRow(g models.Generation) string {
	status := styles.SuccessTextStyle.Render("success")
	if g.Status != models.StatusSuccess {
		status = styles.ErrorTextStyle.Render("failure")
	}

	prompt := g.Prompt
	if g.Status != models.StatusSuccess && g.Error != "" {
		prompt = prompt + " — " + g.Error
	}
	promptWidth := m.width - 66
	if promptWidth < 16 {
		promptWidth = 16
	}
	prompt = ansi.Truncate(strings.ReplaceAll(prompt, "\n", " "), promptWidth, "…")

	return fmt.Sprintf("%-5d %s %s %-16s %8d  %s",
		g.ID,
		styles.MutedTextStyle.Render(g.Timestamp.Format("2006-01-02 15:04:05")),
		status+"  ",
		ansi.Truncate(g.Model, 16, "…"),
		g.TotalTokens(),
		prompt,
	)
}

func (m *Model) renderStats() string {
	if m.stats == nil {
		return ""
	}

	summary := fmt.Sprintf("%d generations  •  %d ok / %d failed  •  %d prompt + %d response tokens  •  %d models",
		m.stats.TotalGenerations,
		m.stats.Successes,
		m.stats.Failures,
		m.stats.TotalPromptTokens,
		m.stats.TotalResponseTokens,
		m.stats.UniqueModels,
	)

	chart := components.RenderLineChart(m.tokenSeries(), m.width-12, 5, "tokens per generation")

	return styles.StatsStyle.Render(lipgloss.JoinVertical(lipgloss.Left, summary, "", chart))
}

// tokenSeries returns total token counts in chronological order.
func (m *Model) tokenSeries() []float64 {
	series := make([]float64, 0, len(m.generations))
	for i := len(m.generations) - 1; i >= 0; i-- {
		series = append(series, float64(m.generations[i].TotalTokens()))
	}
	return series
}

func (m *Model) renderHelp() string {
	return styles.HelpStyle.Render("r refresh  •  ↑/↓ scroll  •  q quit")
}

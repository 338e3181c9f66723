package tui

import (
	"fmt"
	"strings"

	"flowcrm/internal/dashboard"
	"flowcrm/internal/model"
	"flowcrm/internal/money"
	"flowcrm/internal/stage"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) renderDashboard(width, height int) string {
	metrics := dashboard.Compute(m.deals, m.activities)

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Total deals", fmt.Sprintf("%d", metrics.TotalDeals)),
		" ",
		metricCard("Pipeline value", money.FormatUSD(metrics.PipelineValue)),
		" ",
		metricCard("Won deals", fmt.Sprintf("%d", metrics.WonDeals)),
		" ",
		metricCard("Activities", fmt.Sprintf("%d", metrics.ActivityCount)),
	)

	sections := []string{
		cards,
		"",
		lipgloss.NewStyle().Bold(true).Render("Deals by stage"),
		renderStageHistogram(metrics, width),
		"",
		lipgloss.NewStyle().Bold(true).Render("Recent activity"),
		m.renderRecentActivities(width),
	}

	return normalizePane(strings.Join(sections, "\n"), width, height)
}

func metricCard(label, value string) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Padding(0, 2).
		Render(styleMuted().Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
}

func renderStageHistogram(metrics dashboard.Metrics, width int) string {
	maxCount := 0
	for _, s := range stage.All() {
		if c := metrics.ByStage[s]; c > maxCount {
			maxCount = c
		}
	}

	labelW := 0
	for _, s := range stage.All() {
		if len(s) > labelW {
			labelW = len(s)
		}
	}
	barW := width - labelW - 8
	if barW < 10 {
		barW = 10
	}

	var b strings.Builder
	for _, s := range stage.All() {
		count := metrics.ByStage[s]
		filled := 0
		if maxCount > 0 {
			filled = count * barW / maxCount
		}
		if count > 0 && filled == 0 {
			filled = 1
		}
		bar := lipgloss.NewStyle().Foreground(stageAccent(s)).Render(strings.Repeat("█", filled))
		fmt.Fprintf(&b, "%-*s %s %d\n", labelW, s, bar, count)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m appModel) renderRecentActivities(width int) string {
	recent := dashboard.RecentActivities(m.activities, 5)
	if len(recent) == 0 {
		return styleMuted().Render("(none)")
	}

	var b strings.Builder
	for _, a := range recent {
		linked := joinNonEmpty(" · ",
			model.DealTitle(m.deals, a.DealID),
			model.ContactName(m.contacts, a.ContactID),
		)
		line := fmt.Sprintf("%s  %s  %s", a.Date.Format("Jan 02 15:04"), a.Type, a.Description)
		if linked != "" {
			line += styleMuted().Render("  (" + linked + ")")
		}
		b.WriteString(truncateText(line, width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/weather-now/internal/models"
)

// renderLocationCard renders the selected location with its current
// weather, or a loading line while the fetch is outstanding.
func (m Model) renderLocationCard() string {
	loc := m.session.Selected()
	if loc == nil {
		return ""
	}

	var content strings.Builder

	content.WriteString(titleStyle.Render(loc.Label()))
	content.WriteString("\n")
	content.WriteString(mutedStyle.Render(loc.Detail()))
	if loc.Timezone != "" {
		content.WriteString("  ")
		content.WriteString(badgeStyle.Render(loc.Timezone))
	}
	content.WriteString("\n\n")

	w := m.session.Weather()
	switch {
	case m.session.Loading():
		content.WriteString(loadingStyle.Render(fmt.Sprintf("%s Loading current weather…", m.spinner.View())))
	case w != nil:
		content.WriteString(renderWeatherGrid(w))
		content.WriteString("\n\n")
		content.WriteString(mutedStyle.Render("Updated: " + w.ObservedText()))
	default:
		content.WriteString(mutedStyle.Render("No weather data available"))
	}

	return cardStyle.Render(content.String())
}

// renderWeatherGrid lays out the current readings in two columns
func renderWeatherGrid(w *models.Conditions) string {
	left := lipgloss.JoinVertical(lipgloss.Left,
		gridCell("Temperature", w.TemperatureText()),
		gridCell("Humidity", w.HumidityText()),
		gridCell("Wind direction", w.WindDirectionText()),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		gridCell("Conditions", w.Condition()),
		gridCell("Wind speed", w.WindSpeedText()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "   ", right)
}

func gridCell(label, value string) string {
	return labelStyle.Width(15).Render(label) + valueStyle.Render(value)
}

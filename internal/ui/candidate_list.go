package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/ngmaloney/weather-now/internal/models"
)

// candidateItem wraps a Location for use in a list
type candidateItem struct {
	location models.Location
}

// FilterValue implements list.Item
func (c candidateItem) FilterValue() string {
	return c.location.Label()
}

// Title implements list.DefaultItem
func (c candidateItem) Title() string {
	return c.location.Label()
}

// Description implements list.DefaultItem
func (c candidateItem) Description() string {
	if c.location.Timezone == "" {
		return c.location.Detail()
	}
	return c.location.Detail() + " • " + c.location.Timezone
}

// createCandidateList creates a list.Model from geocoding matches.
// Height is sized so every match fits on one page.
func createCandidateList(locations []models.Location, width int) list.Model {
	items := make([]list.Item, len(locations))
	for i, loc := range locations {
		items[i] = candidateItem{location: loc}
	}

	delegate := list.NewDefaultDelegate()
	height := len(items)*(delegate.Height()+delegate.Spacing()) + 4

	l := list.New(items, delegate, width, height)
	l.Title = "Select a location"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return l
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/niagara/internal/models"
)

var (
	_ list.Item = eventItem{}
)

// eventItem wraps [models.Event] and its favorite marker to implement [list.Item].
type eventItem struct {
	event models.Event
	saved bool
}

func (i eventItem) FilterValue() string { return i.event.Title + " " + i.event.Location }
func (i eventItem) Title() string {
	marker := "♡"
	if i.saved {
		marker = styles.heart.Render("♥")
	}
	return fmt.Sprintf("%s %s", marker, i.event.Title)
}
func (i eventItem) Description() string {
	return fmt.Sprintf("%s • %s • %s", i.event.Date, i.event.Location, i.event.PriceLabel())
}

func eventItems(events []models.Event, saved models.FavoriteSet) []list.Item {
	items := make([]list.Item, len(events))
	for i, e := range events {
		items[i] = eventItem{event: e, saved: saved.Has(e.ID)}
	}
	return items
}

// package catalog is the static event listing shipped with the client
package catalog

import (
	"strings"

	"github.com/desertthunder/niagara/internal/models"
)

// AllCategories matches every event in [Catalog.Filter].
const AllCategories = "All Events"

// Categories lists the filter chips in display order.
var Categories = []string{AllCategories, "Music", "Food & Wine", "Arts", "Sports", "Comedy", "Family"}

var seed = []models.Event{
	{ID: "1", Title: "Niagara Music Festival", Date: "Mar 15 - 16, 2026", Time: "6pm - 11pm", Category: "Music", Location: "Queen Victoria Park, Niagara Falls", Price: 89, Interested: 342},
	{ID: "2", Title: "Falls Wine & Dine", Date: "Mar 22, 2026", Time: "12pm - 8pm", Category: "Food & Wine", Location: "Niagara-on-the-Lake", Price: 65, Interested: 218},
	{ID: "3", Title: "Niagara Arts Walk", Date: "Apr 5 - 6, 2026", Time: "10am - 5pm", Category: "Arts", Location: "Niagara Parkway Trail", Price: 0, Interested: 156},
	{ID: "4", Title: "Jazz by the Vineyard", Date: "Apr 12, 2026", Time: "7pm - 11pm", Category: "Music", Location: "Peller Estates Winery", Price: 120, Interested: 89},
	{ID: "5", Title: "Niagara Falls Marathon", Date: "Apr 19, 2026", Time: "7am - 1pm", Category: "Sports", Location: "Niagara Falls, Start Line", Price: 45, Interested: 512},
	{ID: "6", Title: "Comedy Night Live", Date: "Mar 28, 2026", Time: "8pm - 10:30pm", Category: "Comedy", Location: "FirstOntario PAC, St. Catharines", Price: 35, Interested: 274},
}

// Catalog looks events up by id.
type Catalog struct {
	events []models.Event
	byID   map[models.FavoriteID]models.Event
}

// New builds a catalog from events. With no events it uses the built-in listing.
func New(events ...models.Event) *Catalog {
	if len(events) == 0 {
		events = seed
	}
	c := &Catalog{events: events, byID: make(map[models.FavoriteID]models.Event, len(events))}
	for _, e := range events {
		c.byID[e.ID] = e
	}
	return c
}

// All returns the events in listing order.
func (c *Catalog) All() []models.Event {
	return append([]models.Event(nil), c.events...)
}

// Find returns the event with id.
func (c *Catalog) Find(id models.FavoriteID) (models.Event, bool) {
	e, ok := c.byID[id]
	return e, ok
}

// Filter returns events in category whose title or location contains query (case-insensitive).
func (c *Catalog) Filter(category, query string) []models.Event {
	query = strings.ToLower(strings.TrimSpace(query))
	var out []models.Event
	for _, e := range c.events {
		if category != "" && category != AllCategories && e.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Title), query) && !strings.Contains(strings.ToLower(e.Location), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Select returns the catalog events whose ids are in set, in listing order.
func (c *Catalog) Select(set models.FavoriteSet) []models.Event {
	var out []models.Event
	for _, e := range c.events {
		if set.Has(e.ID) {
			out = append(out, e)
		}
	}
	return out
}

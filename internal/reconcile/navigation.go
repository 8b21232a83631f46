package reconcile

import (
	"net/url"
	"strings"

	"github.com/desertthunder/niagara/internal/models"
)

const (
	// ProfilePath is the authentication screen.
	ProfilePath = "/profile"
	// HomePath is where a confirmed sign-in lands when no origin was recorded.
	HomePath = "/"
	// IntentFavorite marks a profile visit started by a heart tap.
	IntentFavorite = "favorite"
)

// Navigator moves the client to another screen.
type Navigator interface {
	Navigate(to string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(to string)

func (f NavigatorFunc) Navigate(to string) { f(to) }

// Params are the query parameters the profile screen reads.
type Params struct {
	Intent  string
	EventID string
	From    string
}

// ProfileURL builds the profile location for a heart tap on id made at from.
func ProfileURL(id models.FavoriteID, from string) string {
	q := url.Values{}
	q.Set("intent", IntentFavorite)
	q.Set("eventId", string(id))
	q.Set("from", from)
	return ProfilePath + "?" + q.Encode()
}

// ParseLocation splits a location such as "/profile?intent=favorite&eventId=3" into its path and [Params].
func ParseLocation(location string) (string, Params) {
	u, err := url.Parse(location)
	if err != nil {
		return location, Params{}
	}
	q := u.Query()
	return u.Path, Params{Intent: q.Get("intent"), EventID: q.Get("eventId"), From: q.Get("from")}
}

// FavoriteIntent reports whether the visit came from a heart tap.
func (p Params) FavoriteIntent() bool { return p.Intent == IntentFavorite }

// Origin returns the decoded from parameter when it is an in-app path, otherwise "".
func (p Params) Origin() string {
	if p.From == "" {
		return ""
	}
	decoded, err := url.PathUnescape(p.From)
	if err != nil || !strings.HasPrefix(decoded, "/") {
		return ""
	}
	return decoded
}

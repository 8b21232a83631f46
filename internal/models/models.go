// package models defines the data model for the niagara favorites client
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FavoriteID identifies an event. It is always held in canonical string form so that 3, 3.0 and "3" compare equal.
type FavoriteID string

// NewFavoriteID normalizes a string or numeric event id.
func NewFavoriteID(v any) (FavoriteID, error) {
	switch id := v.(type) {
	case FavoriteID:
		return normalizeString(string(id))
	case string:
		return normalizeString(id)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return FavoriteID(strconv.FormatInt(n, 10)), nil
		}
		if f, err := id.Float64(); err == nil {
			return formatFloat(f)
		}
		return normalizeString(id.String())
	case int:
		return FavoriteID(strconv.Itoa(id)), nil
	case int32:
		return FavoriteID(strconv.FormatInt(int64(id), 10)), nil
	case int64:
		return FavoriteID(strconv.FormatInt(id, 10)), nil
	case uint:
		return FavoriteID(strconv.FormatUint(uint64(id), 10)), nil
	case uint64:
		return FavoriteID(strconv.FormatUint(id, 10)), nil
	case float64:
		return formatFloat(id)
	case float32:
		return formatFloat(float64(id))
	default:
		return "", fmt.Errorf("unsupported favorite id type %T", v)
	}
}

// MustFavoriteID is [NewFavoriteID] for ids known to be valid, such as catalog seeds and test fixtures.
func MustFavoriteID(v any) FavoriteID {
	id, err := NewFavoriteID(v)
	if err != nil {
		panic(err)
	}
	return id
}

func normalizeString(s string) (FavoriteID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty favorite id")
	}
	return FavoriteID(s), nil
}

func formatFloat(f float64) (FavoriteID, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("invalid favorite id %v", f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return FavoriteID(strconv.FormatInt(int64(f), 10)), nil
	}
	return FavoriteID(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

func (id FavoriteID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or number.
func (id *FavoriteID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	parsed, err := NewFavoriteID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// FavoriteSet is a set of [FavoriteID].
//
// The zero value is an empty, read-only set; use [NewFavoriteSet] before adding.
type FavoriteSet map[FavoriteID]struct{}

// NewFavoriteSet builds a set from ids.
func NewFavoriteSet(ids ...FavoriteID) FavoriteSet {
	s := make(FavoriteSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s FavoriteSet) Has(id FavoriteID) bool {
	_, ok := s[id]
	return ok
}

func (s FavoriteSet) Add(id FavoriteID)    { s[id] = struct{}{} }
func (s FavoriteSet) Remove(id FavoriteID) { delete(s, id) }
func (s FavoriteSet) Len() int             { return len(s) }

// Clone returns an independent copy; cloning nil yields an empty, writable set.
func (s FavoriteSet) Clone() FavoriteSet {
	c := make(FavoriteSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// Slice returns the ids in ascending order.
func (s FavoriteSet) Slice() []FavoriteID {
	ids := make([]FavoriteID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Strings returns the ids in ascending order as plain strings.
func (s FavoriteSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, id := range s.Slice() {
		out = append(out, string(id))
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s FavoriteSet) Equal(other FavoriteSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the set as a sorted array, so equal sets always produce identical bytes.
func (s FavoriteSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON reads an array of string or numeric ids. null decodes to an empty set.
func (s *FavoriteSet) UnmarshalJSON(data []byte) error {
	var ids []FavoriteID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewFavoriteSet(ids...)
	return nil
}

// User is the persisted signed-in identity.
type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	AuthenticatedAt int64  `json:"ts,omitempty"` // epoch milliseconds
}

// Validate reports whether the record is a usable identity: positive id, non-empty name and email.
func (u User) Validate() error {
	if u.ID <= 0 {
		return fmt.Errorf("user id must be a positive integer, got %d", u.ID)
	}
	if strings.TrimSpace(u.Name) == "" {
		return fmt.Errorf("user name is required")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user email is required")
	}
	return nil
}

// PendingFavorite records an anonymous heart tap that needs a sign-in to become permanent.
type PendingFavorite struct {
	EventID   FavoriteID `json:"eventId"`
	PrevSaved bool       `json:"prevSaved"`
	CreatedAt int64      `json:"ts,omitempty"` // epoch milliseconds
}

// NewPendingFavorite stamps an entry with t.
func NewPendingFavorite(id FavoriteID, prevSaved bool, t time.Time) PendingFavorite {
	return PendingFavorite{EventID: id, PrevSaved: prevSaved, CreatedAt: t.UnixMilli()}
}

// Event is a catalog entry.
type Event struct {
	ID          FavoriteID `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Category    string     `json:"category"`
	Location    string     `json:"location"`
	Price       float64    `json:"price"`
	Interested  int        `json:"interested"`
	Description string     `json:"description,omitempty"`
}

// PriceLabel renders the price the way listings show it.
func (e Event) PriceLabel() string {
	if e.Price == 0 {
		return "Free"
	}
	return fmt.Sprintf("$%.0f", e.Price)
}

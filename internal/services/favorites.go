package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
)

// FavoritesService implements [FavoritesAPI] over HTTP.
type FavoritesService struct {
	client *Client
}

// NewFavoritesService creates a [FavoritesService] sharing client.
func NewFavoritesService(client *Client) *FavoritesService {
	return &FavoritesService{client: client}
}

func favoritesPath(userID int64) string {
	return fmt.Sprintf("/api/favorites/%d", userID)
}

func favoritePath(userID int64, eventID models.FavoriteID) string {
	return favoritesPath(userID) + "/" + url.PathEscape(string(eventID))
}

// List calls GET /api/favorites/{userId}.
func (s *FavoritesService) List(ctx context.Context, userID int64) ([]models.FavoriteID, error) {
	var ids []models.FavoriteID
	if err := s.client.doRequest(ctx, shared.ErrFavoritesFetch, http.MethodGet, favoritesPath(userID), nil, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []models.FavoriteID{}
	}
	return ids, nil
}

// Add calls POST /api/favorites/{userId}/{eventId}.
func (s *FavoritesService) Add(ctx context.Context, userID int64, eventID models.FavoriteID) error {
	return s.client.doRequest(ctx, shared.ErrFavoriteAdd, http.MethodPost, favoritePath(userID, eventID), nil, nil)
}

// Remove calls DELETE /api/favorites/{userId}/{eventId}.
func (s *FavoritesService) Remove(ctx context.Context, userID int64, eventID models.FavoriteID) error {
	return s.client.doRequest(ctx, shared.ErrFavoriteRemove, http.MethodDelete, favoritePath(userID, eventID), nil, nil)
}

// BulkFavoritesRequest is the body of the bulk add call.
type BulkFavoritesRequest struct {
	EventIDs []string `json:"eventIds"`
}

// BulkAdd calls POST /api/favorites/{userId}/bulk.
func (s *FavoritesService) BulkAdd(ctx context.Context, userID int64, eventIDs []models.FavoriteID) ([]models.FavoriteID, error) {
	body := BulkFavoritesRequest{EventIDs: make([]string, 0, len(eventIDs))}
	for _, id := range eventIDs {
		body.EventIDs = append(body.EventIDs, string(id))
	}

	var ids []models.FavoriteID
	if err := s.client.doRequest(ctx, shared.ErrFavoritesBulk, http.MethodPost, favoritesPath(userID)+"/bulk", body, &ids); err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []models.FavoriteID{}
	}
	return ids, nil
}

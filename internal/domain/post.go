package domain

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID           uuid.UUID  `json:"id" db:"post_id"`
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty" db:"department_id"`
	ImageURL     string     `json:"image_url" db:"image_url"`
	Description  string     `json:"description" db:"description"`
	Latitude     *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64   `json:"longitude,omitempty" db:"longitude"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	Author *PostAuthor `json:"author,omitempty"`
}

type PostAuthor struct {
	ID   uuid.UUID `json:"id" db:"author_id"`
	Name string    `json:"name" db:"author_name"`
}

type CreatePostInput struct {
	Description string          `json:"description"`
	Location    json.RawMessage `json:"location,omitempty"`
}

type UpdatePostInput struct {
	Description *string         `json:"description,omitempty"`
	Location    json.RawMessage `json:"location,omitempty"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var ErrInvalidLocation = errors.New("location must be a \"lat,lng\" string or a {latitude, longitude} object")

// ParseLocation normalizes the two historical location encodings, a
// "lat,lng" string and a structured object, into one value. Everything
// past the ingestion edge works with the normalized form only.
func ParseLocation(raw json.RawMessage) (*Location, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		parts := strings.Split(asString, ",")
		if len(parts) != 2 {
			return nil, ErrInvalidLocation
		}
		lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errLat != nil || errLng != nil {
			return nil, ErrInvalidLocation
		}
		return newLocation(lat, lng)
	}

	var asObject Location
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil, ErrInvalidLocation
	}
	return newLocation(asObject.Latitude, asObject.Longitude)
}

func newLocation(lat, lng float64) (*Location, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return nil, ErrInvalidLocation
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, ErrInvalidLocation
	}
	return &Location{Latitude: lat, Longitude: lng}, nil
}

package models

// Floor represents a named level of the school with an optional map image
type Floor struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name"`
	MapImageRef string `json:"mapImageRef,omitempty"`
}

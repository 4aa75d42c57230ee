package model

import "time"

// Class is a named group users may belong to.
type Class struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateClassRequest is the payload for renaming a class. An empty name keeps the current one.
type UpdateClassRequest struct {
	Name string `json:"name"`
}

package entity

import "time"

// Client representa un cliente del negocio. Email es su clave natural.
type Client struct {
	ID int64
	Person
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

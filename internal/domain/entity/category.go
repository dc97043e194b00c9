package entity

// Category agrupa productos.
type Category struct {
	ID          int64
	Name        string
	Description string
}

package repository

import (
	"context"

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
)

// UserRepository almacén de identidades del back-office (inyectado en auth, sin contexto global).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Count total de usuarios (el primero registrado se crea como admin).
	Count(ctx context.Context) (int, error)
}

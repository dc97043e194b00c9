package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/domain"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/repository"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// TokenIssuer firma tokens para {email, role}.
type TokenIssuer interface {
	Issue(email, role string) (string, error)
}

// Mailer envía notificaciones por correo.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// AuthUseCase casos de uso de autenticación: registro y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	mailer   Mailer
	log      *logger.Logger
	dispatch func(func())
}

// NewAuthUseCase construye el caso de uso de auth. mailer puede ser nil.
func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer, mailer Mailer, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
		mailer:   mailer,
		log:      log.Named("auth"),
		dispatch: func(f func()) { go f() },
	}
}

// Register crea un usuario con password bcrypt.
// El primer usuario del sistema es admin; después solo un admin (callerRole) puede asignar roles.
// El correo de bienvenida se envía en segundo plano y su fallo no afecta el registro.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, callerRole string) (*dto.UserResponse, error) {
	email := entity.NormalizeEmail(in.Email)
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("auth: buscar usuario: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	role, err := uc.resolveRole(ctx, in.Role, callerRole)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		Person: entity.Person{
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Email:     email,
			Phone:     strings.TrimSpace(in.Phone),
		},
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Int64("user_id", user.ID).Str("role", role).Msg("usuario registrado")

	uc.sendWelcome(user)
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) resolveRole(ctx context.Context, requested, callerRole string) (string, error) {
	n, err := uc.userRepo.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("auth: contar usuarios: %w", err)
	}
	if n == 0 {
		return entity.RoleAdmin, nil
	}
	if requested == "" {
		return entity.RoleVendedor, nil
	}
	if !entity.ValidRole(requested) {
		return "", fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, requested)
	}
	if requested != entity.RoleVendedor && callerRole != entity.RoleAdmin {
		return "", domain.ErrForbidden
	}
	return requested, nil
}

func (uc *AuthUseCase) sendWelcome(u *entity.User) {
	if uc.mailer == nil {
		return
	}
	to := u.Email
	body := fmt.Sprintf("Hola %s,\n\nTu cuenta (%s) en el sistema de ventas fue creada correctamente.\n", u.FullName(), u.Role)
	uc.dispatch(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := uc.mailer.Send(ctx, to, "Bienvenido al sistema de ventas", body); err != nil {
			uc.log.Warn().Err(err).Str("to", to).Msg("no se pudo enviar el correo de bienvenida")
		}
	})
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, entity.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := uc.tokens.Issue(user.Email, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

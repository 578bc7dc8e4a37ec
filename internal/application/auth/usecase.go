package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/domain"
	"github.com/jhoicas/Inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/Inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/Inventario-ledger/pkg/jwt"
)

// UseCase registro y login de operadores del ledger. Las reglas de tenancy
// viven aquí: todo usuario nace dentro de una empresa existente, el primer
// usuario del tenant queda como admin (alguien tiene que poder fijar el
// método de costeo) y los siguientes reciben un rol del conjunto cerrado.
type UseCase struct {
	userRepo    repository.UserRepository
	companyRepo repository.CompanyRepository
	tokens      *jwt.Signer
}

// NewUseCase construye el caso de uso. tokens es el mismo signer que usa el
// middleware HTTP para verificar.
func NewUseCase(userRepo repository.UserRepository, companyRepo repository.CompanyRepository, tokens *jwt.Signer) *UseCase {
	return &UseCase{userRepo: userRepo, companyRepo: companyRepo, tokens: tokens}
}

// normalizeEmail el email es la identidad de login: se compara siempre en
// minúsculas y sin espacios.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// resolveRole decide el rol del usuario nuevo. Explícito gana si es válido;
// el primer usuario del tenant es admin; el resto, bodeguero.
func (uc *UseCase) resolveRole(companyID, requested string) (string, error) {
	if requested != "" {
		if !entity.ValidRole(requested) {
			return "", domain.ErrInvalidInput
		}
		return requested, nil
	}
	existing, err := uc.userRepo.CountByCompany(companyID)
	if err != nil {
		return "", err
	}
	if existing == 0 {
		return entity.RoleAdmin, nil
	}
	return entity.RoleBodeguero, nil
}

// RegisterUser da de alta un operador en una empresa existente.
// ErrEmailAlreadyExists si el email ya está registrado en ese tenant,
// ErrNotFound si la empresa no existe, ErrInvalidInput si el rol pedido no
// pertenece al conjunto cerrado.
func (uc *UseCase) RegisterUser(in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)

	company, err := uc.companyRepo.GetByID(in.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if existing, _ := uc.userRepo.GetByEmailAndCompany(email, in.CompanyID); existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	role, err := uc.resolveRole(in.CompanyID, in.Role)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    in.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if user.Name == "" {
		user.Name = email
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica credenciales y emite un token con el actor completo
// (usuario, empresa, rol). ErrUserNotFound y ErrUnauthorized se distinguen
// aquí; el handler los colapsa en una sola respuesta 401.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.CanOperate() {
		return nil, domain.ErrForbidden
	}
	token, err := uc.tokens.Sign(jwt.Actor{
		UserID:    user.ID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
	})
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
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

package auth

import (
	"fmt"
	"strconv"

	"github.com/backofficehq/admin-backend/internal"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository resolves credentials and caller identity for the auth flow.
type UserRepository interface {
	GetPasswordForEmail(email string) (passwordHash string, userID int64, err error)
	GetUserWithPermissions(userID int64) (*User, error)
	EmailExists(email string) (bool, error)
	CreateUser(params CreateUserParams) (int64, error)
}

// RoleAssigner is the slice of the RBAC layer registration needs.
type RoleAssigner interface {
	AssignRole(userID, roleID int64) error
}

// CreateUserParams is the explicit field set persisted on register; request
// fields never flow into the row unenumerated.
type CreateUserParams struct {
	Name           string
	Surname        string
	Email          string
	PasswordHash   string
	RoleID         int64
	SucursaleID    int64
	TypeDocument   string
	NumberDocument string
	Gender         string
	Phone          string
}

// Service performs authentication-related business logic.
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	roleAssigner   RoleAssigner
	bcryptCost     int
}

func NewService(userRepo UserRepository, tokenGen TokenGenerator, roleAssigner RoleAssigner, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		roleAssigner:   roleAssigner,
		bcryptCost:     bcryptCost,
	}
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.userRepo.GetPasswordForEmail(dto.Email)
	if err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	return s.issueTokens(userID, dto.Email)
}

// Register creates an account, records the RBAC assignment and returns a
// fresh token pair for the new user.
func (s *Service) Register(dto RegisterDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	taken, err := s.userRepo.EmailExists(dto.Email)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return AuthTokens{}, internal.NewValidationFieldError("email", "Este correo ya está registrado.", internal.ErrCodeEmailTaken)
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return AuthTokens{}, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.userRepo.CreateUser(CreateUserParams{
		Name:           dto.Name,
		Surname:        dto.Surname,
		Email:          dto.Email,
		PasswordHash:   hash,
		RoleID:         dto.RoleID,
		SucursaleID:    dto.SucursaleID,
		TypeDocument:   dto.TypeDocument,
		NumberDocument: dto.NumberDocument,
		Gender:         dto.Gender,
		Phone:          dto.Phone,
	})
	if err != nil {
		return AuthTokens{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.roleAssigner.AssignRole(userID, dto.RoleID); err != nil {
		return AuthTokens{}, fmt.Errorf("assign role: %w", err)
	}

	return s.issueTokens(userID, dto.Email)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	userID, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		return AuthTokens{}, ErrInvalidToken
	}

	return s.issueTokens(userID, claims.Email)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// GetUserWithPermissions loads the caller identity for context injection.
func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	return s.userRepo.GetUserWithPermissions(userID)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) issueTokens(userID int64, email string) (AuthTokens, error) {
	id := strconv.FormatInt(userID, 10)

	accessToken, err := s.tokenGenerator.GenerateAccessToken(id, email)
	if err != nil {
		return AuthTokens{}, err
	}

	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(id, email)
	if err != nil {
		return AuthTokens{}, err
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type AuthStore interface {
	FindUserByEmail(email string) (*User, error)
	AddUser(u *User) (*User, error)
	GetUser(id int64) (*User, error)
}

// TokenSigner issues a bearer token for the given user id.
type TokenSigner func(userID int64) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	signToken TokenSigner
}

type RegisterRequest struct {
	Email    string
	Password string
	FullName string
	Role     string
	Grade    *int
}

type LoginResult struct {
	Token string
	User  *User
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		signToken: signer,
	}
}

// Register creates a new account. The email must be unused; the role defaults
// to student and must be one of the known roles.
func (s *AuthService) Register(req RegisterRequest) (*User, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, NewInvalidError("valid email required")
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, NewInvalidError("password required")
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, NewInvalidError("full_name required")
	}
	role := req.Role
	if role == "" {
		role = RoleStudent
	}
	if role != RoleStudent && role != RoleTeacher && role != RoleAdmin {
		return nil, NewInvalidError("unknown role " + role)
	}

	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := s.now()
	return s.store.AddUser(&User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         role,
		Grade:        req.Grade,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Login verifies the credentials and issues a bearer token. A missing user
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email/password required")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("incorrect email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, NewUnauthorizedError("incorrect email or password")
	}
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	tok, err := s.signToken(u.ID)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: tok, User: u}, nil
}

// CurrentUser resolves a token subject to its account.
func (s *AuthService) CurrentUser(id int64) (*User, error) {
	u, err := s.store.GetUser(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewNotFoundError("user not found")
	}
	return u, nil
}

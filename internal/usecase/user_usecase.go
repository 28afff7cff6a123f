package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/loantrack/internal/domain"
)

// UserUseCase handles user directory operations
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
	clock    Clock
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, clock Clock) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
		clock:    clock,
	}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Name       string
	Email      string
	Mobile     string
	GPayHandle string
	Password   string
	Role       domain.Role

	QRCode string

	Address           string
	BankName          string
	AccountHolderName string
	Photo             string
}

// Register creates a new user with a hashed password
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	user := &domain.User{
		ID:                uc.idGen.Generate(),
		Name:              input.Name,
		Email:             input.Email,
		Mobile:            input.Mobile,
		GPayHandle:        input.GPayHandle,
		Role:              input.Role,
		QRCode:            input.QRCode,
		Address:           input.Address,
		BankName:          input.BankName,
		AccountHolderName: input.AccountHolderName,
		Photo:             input.Photo,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := domain.ValidateRegistration(user); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("user with email %s already exists", input.Email)
	}

	hashed, err := hashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = hashed

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Don't return hashed password
	user.HashedPassword = ""
	return user, nil
}

// AuthenticateInput represents authentication input
type AuthenticateInput struct {
	Email    string
	Password string
}

// Authenticate verifies user credentials
func (uc *UserUseCase) Authenticate(ctx context.Context, input AuthenticateInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil || user == nil {
		return nil, domain.ErrUnauthorized
	}

	if !user.Active {
		return nil, domain.ErrUnauthorized
	}

	if err := verifyPassword(user.HashedPassword, input.Password); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetProfile retrieves a user by ID
func (uc *UserUseCase) GetProfile(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// UpdateProfileInput represents the fields a user may change about
// themselves. Email, role and password are deliberately absent.
type UpdateProfileInput struct {
	ID                string
	Name              *string
	Mobile            *string
	GPayHandle        *string
	QRCode            *string
	Address           *string
	BankName          *string
	AccountHolderName *string
	Photo             *string
}

// UpdateProfile applies the given profile changes
func (uc *UserUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&user.Name, input.Name)
	set(&user.Mobile, input.Mobile)
	set(&user.GPayHandle, input.GPayHandle)
	set(&user.QRCode, input.QRCode)
	set(&user.Address, input.Address)
	set(&user.BankName, input.BankName)
	set(&user.AccountHolderName, input.AccountHolderName)
	set(&user.Photo, input.Photo)
	user.UpdatedAt = uc.clock.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// ListByRole lists active users holding the given role
func (uc *UserUseCase) ListByRole(ctx context.Context, role domain.Role, limit, offset int) ([]*domain.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.ListByRole(ctx, role, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

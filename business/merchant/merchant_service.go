package merchant

import (
	"context"
	"errors"
	"strconv"

	"darbFilters/domain"
	"darbFilters/pkg/logger"
	"darbFilters/pkg/utils"

	"github.com/go-playground/validator/v10"
)

// MerchantRepository contract interface
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	FindByID(ctx context.Context, id uint64) (domain.Merchant, error)
	FindByEmail(ctx context.Context, email string) (domain.Merchant, error)
}

// StoreRepository contract interface
type StoreRepository interface {
	FindByID(ctx context.Context, id uint64) (domain.Store, error)
}

type merchantService struct {
	merchantRepo MerchantRepository
	storeRepo    StoreRepository
	validate     *validator.Validate
}

func NewMerchantService(
	merchantRepo MerchantRepository,
	storeRepo StoreRepository,
	validate *validator.Validate,
) *merchantService {
	return &merchantService{
		merchantRepo: merchantRepo,
		storeRepo:    storeRepo,
		validate:     validate,
	}
}

const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
)

var validRoles = map[string]bool{
	RoleOwner: true,
	RoleAdmin: true,
}

func (s *merchantService) Register(ctx context.Context, merchant *domain.Merchant) (domain.Merchant, error) {
	if err := s.validate.Var(merchant.Email, "required,email"); err != nil {
		logger.Error("Invalid email format", err)
		return domain.Merchant{}, errors.New("invalid email format")
	}

	if err := s.validate.Var(merchant.Password, "required,min=6"); err != nil {
		logger.Error("Invalid merchant password", err)
		return domain.Merchant{}, errors.New("password must be at least 6 characters")
	}

	// The account must belong to an installed store.
	if _, err := s.storeRepo.FindByID(ctx, merchant.StoreID); err != nil {
		logger.Error("Store not found for merchant registration", err)
		return domain.Merchant{}, errors.New("store not found")
	}

	existing, err := s.merchantRepo.FindByEmail(ctx, merchant.Email)
	if err == nil && existing.MerchantID > 0 {
		logger.Error("Email already exists")
		return domain.Merchant{}, errors.New("email already exists")
	}

	passwordHash, err := utils.HashPassword(merchant.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return domain.Merchant{}, errors.New("failed to hash password")
	}

	role := merchant.Role
	if role == "" {
		role = RoleOwner
	}
	if !validRoles[role] {
		return domain.Merchant{}, errors.New("invalid role")
	}

	newMerchant := domain.Merchant{
		StoreID:  merchant.StoreID,
		FullName: merchant.FullName,
		Email:    merchant.Email,
		Password: string(passwordHash),
		Role:     role,
	}

	if err := s.merchantRepo.Create(ctx, &newMerchant); err != nil {
		logger.Error("Failed to create new merchant", err)
		return domain.Merchant{}, err
	}

	newMerchant.Password = ""
	return newMerchant, nil
}

func (s *merchantService) Login(ctx context.Context, email, password string) (string, domain.Merchant, error) {
	merchant, err := s.merchantRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.Error("Invalid merchant credentials", err)
		return "", domain.Merchant{}, err
	}

	ok := utils.CheckPassword(password, merchant.Password)
	if !ok {
		logger.Error("Merchant password incorrect")
		return "", domain.Merchant{}, errors.New("incorrect password")
	}

	merchantIdStr := strconv.FormatUint(merchant.MerchantID, 10)
	token, err := utils.GenerateJWT(merchantIdStr, merchant.StoreID, merchant.Role)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return "", domain.Merchant{}, errors.New("failed to generate token")
	}

	merchant.Password = ""
	return token, merchant, nil
}

// GetMerchantByID retrieves a merchant by ID
func (s *merchantService) GetMerchantByID(ctx context.Context, id uint64) (domain.Merchant, error) {
	merchant, err := s.merchantRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Failed to get merchant by ID", err)
		return domain.Merchant{}, err
	}

	merchant.Password = ""
	return merchant, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"darbFilters/domain"
	"darbFilters/pkg/logger"

	"github.com/google/uuid"
	"github.com/pobyzaarif/goshortcute"
)

// StoreRepository contract interface
type StoreRepository interface {
	Create(ctx context.Context, store *domain.Store) error
	FindByID(ctx context.Context, id uint64) (domain.Store, error)
	FindAll(ctx context.Context) ([]domain.Store, error)
	Update(ctx context.Context, store *domain.Store) error
	UpdateAccessToken(ctx context.Context, id uint64, token string) error
}

type storeService struct {
	storeRepo        StoreRepository
	appDeploymentUrl string
	embedSecretKey   string
}

func NewStoreService(storeRepo StoreRepository, appDeploymentUrl, embedSecretKey string) *storeService {
	return &storeService{
		storeRepo:        storeRepo,
		appDeploymentUrl: appDeploymentUrl,
		embedSecretKey:   embedSecretKey,
	}
}

// Install registers a store on app installation, or refreshes its token and
// metadata when it already exists.
func (s *storeService) Install(ctx context.Context, store *domain.Store) (domain.Store, error) {
	if store.StoreID == 0 {
		return domain.Store{}, errors.New("store id is required")
	}
	if store.Domain == "" {
		return domain.Store{}, errors.New("store domain is required")
	}

	existing, err := s.storeRepo.FindByID(ctx, store.StoreID)
	if err == nil {
		existing.StoreName = store.StoreName
		existing.Domain = store.Domain
		existing.IsActive = true
		if err := s.storeRepo.Update(ctx, &existing); err != nil {
			logger.Error("Failed to update store on reinstall", err)
			return domain.Store{}, err
		}
		if store.SallaAccessToken != "" {
			if err := s.storeRepo.UpdateAccessToken(ctx, store.StoreID, store.SallaAccessToken); err != nil {
				logger.Error("Failed to refresh store access token", err)
				return domain.Store{}, err
			}
		}
		return existing, nil
	}

	store.IsActive = true
	if store.WidgetSecret == "" {
		store.WidgetSecret = uuid.NewString()
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		logger.Error("Failed to create store", err)
		return domain.Store{}, err
	}

	logger.Info("store installed", "store_id", store.StoreID, "domain", store.Domain)

	return *s.sanitize(store), nil
}

func (s *storeService) GetStore(ctx context.Context, storeID uint64) (domain.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return domain.Store{}, err
	}

	return *s.sanitize(&store), nil
}

func (s *storeService) GetStores(ctx context.Context) ([]domain.Store, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range stores {
		s.sanitize(&stores[i])
	}

	return stores, nil
}

func (s *storeService) Deactivate(ctx context.Context, storeID uint64) error {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return err
	}

	store.IsActive = false
	return s.storeRepo.Update(ctx, &store)
}

// EmbedCode builds the copy-paste script tag for the store's theme. The
// embed token carries the store id and its widget secret, encrypted so the
// snippet exposes neither in the clear.
func (s *storeService) EmbedCode(ctx context.Context, storeID uint64) (string, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return "", err
	}

	payload := strconv.FormatUint(store.StoreID, 10) + "|" + store.WidgetSecret
	encrypted, err := goshortcute.AESCBCEncrypt([]byte(payload), []byte(s.embedSecretKey))
	if err != nil {
		logger.Error("Failed to encrypt embed token", err)
		return "", errors.New("failed to build embed code")
	}
	token := goshortcute.StringtoBase64Encode(encrypted)

	return fmt.Sprintf(
		`<script src="%s/widget.js" data-store="%d" data-token="%s" async></script>`,
		s.appDeploymentUrl, store.StoreID, token,
	), nil
}

// DecodeEmbedToken reverses EmbedCode's token back to (store id, widget
// secret) for widget requests that authenticate with the token.
func (s *storeService) DecodeEmbedToken(token string) (uint64, string, error) {
	decoded := goshortcute.StringtoBase64Decode(token)
	decrypted, err := goshortcute.AESCBCDecrypt([]byte(decoded), []byte(s.embedSecretKey))
	if err != nil {
		return 0, "", errors.New("invalid embed token")
	}

	parts := strings.Split(decrypted, "|")
	if len(parts) != 2 {
		return 0, "", errors.New("invalid embed token")
	}

	storeID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, "", errors.New("invalid embed token")
	}

	return storeID, parts[1], nil
}

func (s *storeService) sanitize(store *domain.Store) *domain.Store {
	store.SallaAccessToken = ""
	return store
}

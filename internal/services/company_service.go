package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tradedocs/internal/caching"
	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
)

const companyCacheTTL = 10 * time.Minute

// CompanyService manages the singleton seller profile. Reads go through the
// cache because the profile is loaded on every document render.
type CompanyService interface {
	Get(ctx context.Context) (*models.CompanyProfile, error)
	Update(ctx context.Context, company *models.CompanyProfile) error
	GetSignature(ctx context.Context) []byte
	UploadSignature(ctx context.Context, filename string, reader io.Reader, size int64) error
}

type companyService struct {
	repo    repositories.CompanyRepository
	cache   caching.CacheService
	storage StorageService
	log     *logrus.Logger
}

func NewCompanyService(repo repositories.CompanyRepository, cache caching.CacheService, storage StorageService, log *logrus.Logger) CompanyService {
	return &companyService{repo: repo, cache: cache, storage: storage, log: log}
}

// Get returns the company profile. When none is configured yet a blank
// profile comes back, so callers can render documents with empty header
// fields instead of failing.
func (s *companyService) Get(ctx context.Context) (*models.CompanyProfile, error) {
	if s.cache != nil {
		if company, err := s.cache.GetCompanyProfile(ctx); err == nil {
			return company, nil
		}
	}

	company, err := s.repo.Get(ctx)
	if err != nil {
		if repositories.IsNotFound(err) {
			return &models.CompanyProfile{StateCode: models.DefaultStateCode}, nil
		}
		return nil, fmt.Errorf("failed to load company profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCompanyProfile(ctx, company, companyCacheTTL); err != nil {
			s.log.WithError(err).Warn("failed to cache company profile")
		}
	}
	return company, nil
}

func (s *companyService) Update(ctx context.Context, company *models.CompanyProfile) error {
	if company.Name == "" {
		return fmt.Errorf("company name is required")
	}
	if code := models.StateCode(company.State); code != "" {
		company.StateCode = code
	}

	if err := s.repo.Upsert(ctx, company); err != nil {
		return fmt.Errorf("failed to save company profile: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateCompanyProfile(ctx); err != nil {
			s.log.WithError(err).Warn("failed to invalidate company profile cache")
		}
	}
	return nil
}

// UploadSignature stores a new signatory image and points the profile at it.
func (s *companyService) UploadSignature(ctx context.Context, filename string, reader io.Reader, size int64) error {
	company, err := s.Get(ctx)
	if err != nil {
		return err
	}
	if company.Name == "" {
		return fmt.Errorf("configure the company profile before uploading a signature")
	}

	key := "company/signature" + sanitizeExt(filename, ".png")
	contentType := "image/png"
	if strings.HasSuffix(key, ".jpg") || strings.HasSuffix(key, ".jpeg") {
		contentType = "image/jpeg"
	}
	if err := s.storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return fmt.Errorf("failed to upload signature image: %w", err)
	}

	company.SignatureKey = &key
	return s.Update(ctx, company)
}

// GetSignature fetches the signatory image for PDF footers. Any failure is
// logged and swallowed; documents render without a signature image.
func (s *companyService) GetSignature(ctx context.Context) []byte {
	company, err := s.Get(ctx)
	if err != nil || company.SignatureKey == nil || *company.SignatureKey == "" {
		return nil
	}
	data, err := s.storage.Download(ctx, *company.SignatureKey)
	if err != nil {
		s.log.WithError(err).Warn("failed to download signature image")
		return nil
	}
	return data
}

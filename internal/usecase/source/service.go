package source

import (
	"context"
	"fmt"

	"github.com/perashanid/Media-bias/internal/domain/entity"
	"github.com/perashanid/Media-bias/internal/repository"
)

// CreateInput represents the input parameters for registering a new source.
type CreateInput struct {
	Key        string
	Name       string
	BaseURL    string
	FeedURL    string
	Language   string
	SourceType string
	Enabled    bool
}

// UpdateInput represents the input parameters for updating an existing source.
// Empty string fields and nil Enabled field will not be updated.
type UpdateInput struct {
	ID       int64
	Name     string
	BaseURL  string
	FeedURL  string
	Language string
	Enabled  *bool
}

// Service provides source management use cases.
// It handles business logic for source operations and delegates persistence to the repository.
type Service struct {
	Repo repository.SourceRepository
}

// List retrieves all registered sources.
// Returns an error if the repository operation fails.
func (s *Service) List(ctx context.Context) ([]*entity.Source, error) {
	sources, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// ListEnabled retrieves the sources currently enabled for scraping.
// Returns an error if the repository operation fails.
func (s *Service) ListEnabled(ctx context.Context) ([]*entity.Source, error) {
	sources, err := s.Repo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled sources: %w", err)
	}
	return sources, nil
}

// Get retrieves a source by its ID.
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Source, error) {
	src, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}

// GetByKey retrieves a source by its registry key (e.g. "prothom_alo").
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) GetByKey(ctx context.Context, key string) (*entity.Source, error) {
	src, err := s.Repo.GetByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get source by key: %w", err)
	}
	if src == nil {
		return nil, ErrSourceNotFound
	}
	return src, nil
}

// Create registers a new source with the provided input.
// It validates the entity fields including URL format before creating.
// Returns ErrDuplicateSource if a source with the same key already exists.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Source, error) {
	src := &entity.Source{
		Key:        in.Key,
		Name:       in.Name,
		BaseURL:    in.BaseURL,
		FeedURL:    in.FeedURL,
		Language:   in.Language,
		SourceType: in.SourceType,
		Enabled:    in.Enabled,
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("validate source: %w", err)
	}

	existing, err := s.Repo.GetByKey(ctx, src.Key)
	if err != nil {
		return nil, fmt.Errorf("check source key: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateSource
	}

	if err := s.Repo.Create(ctx, src); err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}
	return src, nil
}

// Update modifies an existing source with the provided input.
// Empty string fields and nil Enabled field will not be updated.
// Returns ErrSourceNotFound if the source does not exist.
// Returns a ValidationError if any updated field is invalid.
func (s *Service) Update(ctx context.Context, in UpdateInput) error {
	if in.ID <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	src, err := s.Repo.Get(ctx, in.ID)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return ErrSourceNotFound
	}

	if in.Name != "" {
		src.Name = in.Name
	}
	if in.BaseURL != "" {
		src.BaseURL = in.BaseURL
	}
	if in.FeedURL != "" {
		src.FeedURL = in.FeedURL
	}
	if in.Language != "" {
		src.Language = in.Language
	}
	if in.Enabled != nil {
		src.Enabled = *in.Enabled
	}
	if err := src.Validate(); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}

	if err := s.Repo.Update(ctx, src); err != nil {
		return fmt.Errorf("update source: %w", err)
	}
	return nil
}

// SetEnabled toggles scraping for a source identified by key.
// Returns ErrSourceNotFound if the source does not exist.
func (s *Service) SetEnabled(ctx context.Context, key string, enabled bool) error {
	src, err := s.Repo.GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("get source by key: %w", err)
	}
	if src == nil {
		return ErrSourceNotFound
	}

	if err := s.Repo.SetEnabled(ctx, key, enabled); err != nil {
		return fmt.Errorf("set source enabled: %w", err)
	}
	return nil
}

// Delete removes a source by its ID.
// Returns a ValidationError if the ID is not positive.
// Returns an error if the repository operation fails.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return &entity.ValidationError{Field: "id", Message: "must be positive"}
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

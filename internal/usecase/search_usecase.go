package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/domain"
	"github.com/tryggaplatser/locator/internal/domain/repository"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

// minQueryLength mirrors the client-side gate: shorter input only clears
// the previous result list.
const minQueryLength = 3

type SearchUseCase interface {
	Search(ctx context.Context, query string) ([]domain.Location, error)
}

type searchUseCase struct {
	services repository.ServiceRepository
	logger   *zap.Logger
}

func NewSearchUseCase(services repository.ServiceRepository, logger *zap.Logger) SearchUseCase {
	return &searchUseCase{
		services: services,
		logger:   logger,
	}
}

func (uc *searchUseCase) Search(ctx context.Context, query string) ([]domain.Location, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minQueryLength {
		return nil, errors.ErrInvalidRequest
	}
	return uc.services.SearchByText(ctx, query)
}

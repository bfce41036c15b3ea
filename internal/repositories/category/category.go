package category

import (
	"context"

	"github.com/orgball2608/events-telegram-bot/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=category.go -destination=mocks/mock.go
type Repository interface {
	// List returns every category ordered by name
	List(ctx context.Context) ([]domain.Category, error)

	// GetByIDs returns the known categories among ids, ordered by name
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Category, error)
}

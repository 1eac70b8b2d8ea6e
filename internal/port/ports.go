// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations.
package port

import (
	"context"

	"github.com/riyahstaff/credifyai-sub001/internal/domain"
)

// ReportStore persists analyzed reports and their composed letters.
type ReportStore interface {
	SaveReport(ctx context.Context, report *domain.CreditReport) error
	GetReport(ctx context.Context, reportID string) (*domain.CreditReport, error)
	ListReports(ctx context.Context, page, pageSize int) ([]domain.CreditReport, error)

	SaveLetters(ctx context.Context, letters []domain.Letter) error
	GetLetter(ctx context.Context, letterID string) (*domain.Letter, error)
	ListLetters(ctx context.Context, reportID string) ([]domain.Letter, error)
	UpdateLetterStatus(ctx context.Context, letterID string, status domain.LetterStatus) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/projection"
	"github.com/matka/platform/internal/repository"
)

// CatalogService serves the public book/result board and the admin book CRUD.
type CatalogService struct {
	pool      repository.DB
	books     repository.BookRepository
	gameTypes repository.GameTypeRepository
	results   repository.ResultRepository
	store     projection.Store
	logger    *slog.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	pool repository.DB,
	books repository.BookRepository,
	gameTypes repository.GameTypeRepository,
	results repository.ResultRepository,
	store projection.Store,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		pool:      pool,
		books:     books,
		gameTypes: gameTypes,
		results:   results,
		store:     store,
		logger:    logger,
	}
}

// BookView is a book with its derived status and latest declared result.
type BookView struct {
	domain.Book
	Status       domain.BookStatus `json:"status"`
	LatestResult *domain.Result    `json:"latest_result,omitempty"`
}

// ListBooks returns active books with derived status and today's latest
// result per book. The result board is projection-cached per date.
func (s *CatalogService) ListBooks(ctx context.Context, now time.Time) ([]BookView, error) {
	books, err := s.books.List(ctx, s.pool, true)
	if err != nil {
		return nil, domain.ErrInternal("list books", err)
	}

	date := now.Format("2006-01-02")
	byBook := make(map[uuid.UUID]*domain.Result)

	board, err := projection.GetResultBoard(ctx, s.store, date)
	if err != nil {
		latest, err := s.results.LatestPerBook(ctx, s.pool, date)
		if err != nil {
			return nil, domain.ErrInternal("latest results", err)
		}
		_ = projection.UpdateResultBoard(ctx, s.store, projection.ResultBoard{Date: date, Results: latest})
		for i := range latest {
			byBook[latest[i].BookID] = &latest[i]
		}
	} else {
		for i := range board.Results {
			byBook[board.Results[i].BookID] = &board.Results[i]
		}
	}

	views := make([]BookView, 0, len(books))
	for _, b := range books {
		views = append(views, BookView{
			Book:         b,
			Status:       b.Status(now),
			LatestResult: byBook[b.ID],
		})
	}
	return views, nil
}

// BookResults returns a book's declared results newest first.
func (s *CatalogService) BookResults(ctx context.Context, slug string, limit int) ([]domain.Result, error) {
	book, err := s.books.FindBySlug(ctx, s.pool, slug)
	if err != nil {
		return nil, domain.ErrInternal("find book", err)
	}
	if book == nil {
		return nil, domain.ErrNotFound("book", slug)
	}

	results, err := s.results.ListByBook(ctx, s.pool, book.ID, limit)
	if err != nil {
		return nil, domain.ErrInternal("list results", err)
	}
	return results, nil
}

// ListGameTypes returns the game type catalogue.
func (s *CatalogService) ListGameTypes(ctx context.Context) ([]domain.GameType, error) {
	types, err := s.gameTypes.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list game types", err)
	}
	return types, nil
}

// BookInput holds the admin book create/update fields.
type BookInput struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	IsActive  bool   `json:"is_active"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
}

func (in BookInput) validate() error {
	if in.Slug == "" || in.Label == "" {
		return domain.ErrValidation("slug and label are required")
	}
	for _, t := range []string{in.OpenTime, in.CloseTime} {
		if _, err := time.Parse("15:04", t); err != nil {
			return domain.ErrValidation("open_time and close_time must be HH:MM")
		}
	}
	return nil
}

// CreateBook adds a book to the catalogue.
func (s *CatalogService) CreateBook(ctx context.Context, input BookInput) (*domain.Book, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.books.FindBySlug(ctx, s.pool, input.Slug)
	if err != nil {
		return nil, domain.ErrInternal("find book", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("book slug already exists")
	}

	book := &domain.Book{
		ID:        uuid.New(),
		Slug:      input.Slug,
		Label:     input.Label,
		IsActive:  input.IsActive,
		OpenTime:  input.OpenTime,
		CloseTime: input.CloseTime,
		CreatedAt: time.Now(),
	}
	if err := s.books.Create(ctx, s.pool, book); err != nil {
		return nil, domain.ErrInternal("create book", err)
	}

	s.logger.Info("book created", "slug", book.Slug, "open", book.OpenTime, "close", book.CloseTime)
	return book, nil
}

// UpdateBook modifies a book's label, window or active flag. The slug is the
// public identity and never changes.
func (s *CatalogService) UpdateBook(ctx context.Context, slug string, input BookInput) (*domain.Book, error) {
	input.Slug = slug
	if err := input.validate(); err != nil {
		return nil, err
	}

	book, err := s.books.FindBySlug(ctx, s.pool, slug)
	if err != nil {
		return nil, domain.ErrInternal("find book", err)
	}
	if book == nil {
		return nil, domain.ErrNotFound("book", slug)
	}

	book.Label = input.Label
	book.IsActive = input.IsActive
	book.OpenTime = input.OpenTime
	book.CloseTime = input.CloseTime
	if err := s.books.Update(ctx, s.pool, book); err != nil {
		return nil, domain.ErrInternal("update book", err)
	}

	s.logger.Info("book updated", "slug", book.Slug, "active", book.IsActive)
	return book, nil
}

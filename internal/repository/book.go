package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/matka/platform/internal/domain"
)

type bookRepo struct{}

// NewBookRepository returns a pgx-backed BookRepository.
func NewBookRepository() BookRepository {
	return &bookRepo{}
}

const bookColumns = `id, slug, label, is_active, open_time, close_time, created_at`

func (r *bookRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Book, error) {
	row := db.QueryRow(ctx, `
		SELECT `+bookColumns+`
		FROM books WHERE id = $1`, id)
	return scanBook(row)
}

func (r *bookRepo) FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Book, error) {
	row := db.QueryRow(ctx, `
		SELECT `+bookColumns+`
		FROM books WHERE slug = $1`, slug)
	return scanBook(row)
}

func (r *bookRepo) List(ctx context.Context, db DBTX, activeOnly bool) ([]domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY open_time ASC, slug ASC`

	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Slug, &b.Label, &b.IsActive, &b.OpenTime, &b.CloseTime, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *bookRepo) Create(ctx context.Context, db DBTX, book *domain.Book) error {
	_, err := db.Exec(ctx, `
		INSERT INTO books (id, slug, label, is_active, open_time, close_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		book.ID, book.Slug, book.Label, book.IsActive, book.OpenTime, book.CloseTime, book.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

func (r *bookRepo) Update(ctx context.Context, db DBTX, book *domain.Book) error {
	_, err := db.Exec(ctx, `
		UPDATE books SET label = $2, is_active = $3, open_time = $4, close_time = $5
		WHERE id = $1`,
		book.ID, book.Label, book.IsActive, book.OpenTime, book.CloseTime)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	err := row.Scan(&b.ID, &b.Slug, &b.Label, &b.IsActive, &b.OpenTime, &b.CloseTime, &b.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &b, nil
}

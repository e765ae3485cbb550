package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matka/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// DB is a DBTX that can also open transactions. *pgxpool.Pool satisfies it;
// services and the settlement engine depend on this instead of the pool type.
type DB interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ProfileRepository provides access to profiles.
type ProfileRepository interface {
	// FindByID returns a profile by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Profile, error)

	// FindByAuthUserID returns the profile linked to an auth user.
	FindByAuthUserID(ctx context.Context, db DBTX, authUserID uuid.UUID) (*domain.Profile, error)

	// FindByUserCode returns a profile by its public user code.
	FindByUserCode(ctx context.Context, db DBTX, userCode string) (*domain.Profile, error)

	// LockForUpdate acquires a row-level lock (SELECT FOR UPDATE) and returns the profile.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Profile, error)

	// Create inserts a new profile.
	Create(ctx context.Context, db DBTX, profile *domain.Profile) error

	// AddToBalance adds a delta to wallet_balance using server-side arithmetic
	// and returns the updated profile.
	AddToBalance(ctx context.Context, tx pgx.Tx, id uuid.UUID, delta int64) (*domain.Profile, error)

	// TouchLastActive stamps last_active = now().
	TouchLastActive(ctx context.Context, db DBTX, id uuid.UUID) error
}

// WalletRepository provides access to the deposited/winnings split in wallets.
type WalletRepository interface {
	// FindByProfileID returns the wallet for a profile, or nil if not found.
	FindByProfileID(ctx context.Context, db DBTX, profileID uuid.UUID) (*domain.Wallet, error)

	// Create inserts a zeroed wallet row for a new profile.
	Create(ctx context.Context, db DBTX, profileID uuid.UUID) error

	// ApplyDelta adds the deposited/winnings deltas using server-side
	// arithmetic and returns the updated wallet.
	ApplyDelta(ctx context.Context, tx pgx.Tx, profileID uuid.UUID, delta domain.WalletUpdate) (*domain.Wallet, error)
}

// AuthUserRepository provides access to auth_users.
type AuthUserRepository interface {
	// FindByEmail returns an auth user by email, or nil if not found.
	FindByEmail(ctx context.Context, db DBTX, email string) (*domain.AuthUser, error)

	// Create inserts a new auth user.
	Create(ctx context.Context, db DBTX, user *domain.AuthUser) error
}

// TransactionRepository provides access to the append-only transactions ledger.
type TransactionRepository interface {
	// FindExisting checks the idempotency index for a duplicate entry.
	FindExisting(ctx context.Context, db DBTX, userID uuid.UUID, ref string) (*domain.Transaction, error)

	// Insert creates a new ledger entry with wallet snapshots. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, wallet *domain.Wallet) (*domain.Transaction, error)

	// FindByID returns a transaction by ID.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transaction, error)

	// MarkStatus transitions a transaction from one status to another with a
	// conditional update (pending -> completed/failed). Returns false if the
	// row was not in the expected status.
	MarkStatus(ctx context.Context, db DBTX, id uuid.UUID, from, to domain.TransactionStatus) (bool, error)

	// ListByUser returns a user's transactions newest first with cursor pagination.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error)

	// ListRecent returns recent transactions across users, optionally filtered by type.
	ListRecent(ctx context.Context, db DBTX, txType *domain.TransactionType, limit int) ([]domain.Transaction, error)
}

// BetRepository provides access to bets.
type BetRepository interface {
	// Insert creates a new bet.
	Insert(ctx context.Context, db DBTX, bet *domain.Bet) error

	// FindByID returns a bet by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Bet, error)

	// ListByUser returns a user's bets newest first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.Bet, error)

	// List returns bets matching the filter, newest first.
	List(ctx context.Context, db DBTX, filter domain.BetFilter) ([]domain.Bet, error)

	// ListPendingForSettlement returns pending bets for a book and game type
	// placed strictly before the cutoff.
	ListPendingForSettlement(ctx context.Context, db DBTX, bookID, gameTypeID uuid.UUID, before time.Time) ([]domain.Bet, error)

	// MarkStatus transitions a bet from one status to another with a
	// conditional update. Returns false if the bet was not in the expected
	// status (already settled by a concurrent run).
	MarkStatus(ctx context.Context, db DBTX, id uuid.UUID, from, to domain.BetStatus) (bool, error)
}

// ResultRepository provides access to the append-only results table.
type ResultRepository interface {
	// Insert creates a new result row.
	Insert(ctx context.Context, db DBTX, result *domain.Result) error

	// FindByID returns a result by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Result, error)

	// LatestPerBook returns the most recent result per book for a date.
	LatestPerBook(ctx context.Context, db DBTX, date string) ([]domain.Result, error)

	// ListByBook returns a book's results newest first.
	ListByBook(ctx context.Context, db DBTX, bookID uuid.UUID, limit int) ([]domain.Result, error)
}

// BookRepository provides access to books.
type BookRepository interface {
	// FindByID returns a book by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Book, error)

	// FindBySlug returns a book by slug, or nil if not found.
	FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.Book, error)

	// List returns books ordered by open_time, optionally only active ones.
	List(ctx context.Context, db DBTX, activeOnly bool) ([]domain.Book, error)

	// Create inserts a new book.
	Create(ctx context.Context, db DBTX, book *domain.Book) error

	// Update modifies a book's label, window and active flag.
	Update(ctx context.Context, db DBTX, book *domain.Book) error
}

// GameTypeRepository provides access to game_types.
type GameTypeRepository interface {
	// FindByID returns a game type by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.GameType, error)

	// FindBySlug returns a game type by slug, or nil if not found.
	FindBySlug(ctx context.Context, db DBTX, slug string) (*domain.GameType, error)

	// List returns all game types.
	List(ctx context.Context, db DBTX) ([]domain.GameType, error)
}

// UTRRepository provides access to utr submissions.
type UTRRepository interface {
	// Insert creates a new submission in pending status.
	Insert(ctx context.Context, db DBTX, sub *domain.UTRSubmission) error

	// FindByID returns a submission by ID, or nil if not found.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.UTRSubmission, error)

	// ListByUser returns a user's submissions newest first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, limit int) ([]domain.UTRSubmission, error)

	// ListPending returns pending submissions oldest first for operator review.
	ListPending(ctx context.Context, db DBTX, limit int) ([]domain.UTRSubmission, error)

	// MarkStatus transitions a pending submission to approved or rejected with
	// a conditional update. Returns false if the submission was not pending.
	MarkStatus(ctx context.Context, db DBTX, id uuid.UUID, to string) (bool, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the write
	// it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error
}

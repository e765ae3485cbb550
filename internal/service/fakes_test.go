package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/ledger"
	"github.com/matka/platform/internal/repository"
)

// memTx is a no-op pgx.Tx; the fake repositories keep their own state.
type memTx struct{}

func (memTx) Begin(context.Context) (pgx.Tx, error) { return memTx{}, nil }
func (memTx) Commit(context.Context) error          { return nil }
func (memTx) Rollback(context.Context) error        { return nil }
func (memTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (memTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (memTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (memTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (memTx) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (memTx) Query(context.Context, string, ...interface{}) (pgx.Rows, error) { return nil, nil }
func (memTx) QueryRow(context.Context, string, ...interface{}) pgx.Row        { return nil }
func (memTx) Conn() *pgx.Conn                                                 { return nil }

// zeroRow scans zeroes, which keeps the login-attempt count below the
// lockout threshold.
type zeroRow struct{}

func (zeroRow) Scan(dest ...interface{}) error {
	for _, d := range dest {
		if p, ok := d.(*int); ok {
			*p = 0
		}
	}
	return nil
}

type memDB struct{}

func (memDB) Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (memDB) Query(context.Context, string, ...interface{}) (pgx.Rows, error) { return nil, nil }
func (memDB) QueryRow(context.Context, string, ...interface{}) pgx.Row        { return zeroRow{} }
func (memDB) Begin(context.Context) (pgx.Tx, error)                           { return memTx{}, nil }

type fakeProfiles struct{ byID map[uuid.UUID]*domain.Profile }

func newFakeProfiles(profiles ...*domain.Profile) *fakeProfiles {
	f := &fakeProfiles{byID: make(map[uuid.UUID]*domain.Profile)}
	for _, p := range profiles {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProfiles) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Profile, error) {
	return f.byID[id], nil
}

func (f *fakeProfiles) FindByAuthUserID(_ context.Context, _ repository.DBTX, authUserID uuid.UUID) (*domain.Profile, error) {
	for _, p := range f.byID {
		if p.AuthUserID != nil && *p.AuthUserID == authUserID {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) FindByUserCode(_ context.Context, _ repository.DBTX, userCode string) (*domain.Profile, error) {
	for _, p := range f.byID {
		if p.UserCode == userCode {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakeProfiles) LockForUpdate(_ context.Context, _ pgx.Tx, id uuid.UUID) (*domain.Profile, error) {
	return f.byID[id], nil
}

func (f *fakeProfiles) Create(_ context.Context, _ repository.DBTX, profile *domain.Profile) error {
	f.byID[profile.ID] = profile
	return nil
}

func (f *fakeProfiles) AddToBalance(_ context.Context, _ pgx.Tx, id uuid.UUID, delta int64) (*domain.Profile, error) {
	p := f.byID[id]
	p.WalletBalance += delta
	return p, nil
}

func (f *fakeProfiles) TouchLastActive(context.Context, repository.DBTX, uuid.UUID) error { return nil }

type fakeWallets struct{ byProfile map[uuid.UUID]*domain.Wallet }

func newFakeWallets(wallets ...*domain.Wallet) *fakeWallets {
	f := &fakeWallets{byProfile: make(map[uuid.UUID]*domain.Wallet)}
	for _, w := range wallets {
		f.byProfile[w.ProfileID] = w
	}
	return f
}

func (f *fakeWallets) FindByProfileID(_ context.Context, _ repository.DBTX, profileID uuid.UUID) (*domain.Wallet, error) {
	return f.byProfile[profileID], nil
}

func (f *fakeWallets) Create(_ context.Context, _ repository.DBTX, profileID uuid.UUID) error {
	f.byProfile[profileID] = &domain.Wallet{ProfileID: profileID}
	return nil
}

func (f *fakeWallets) ApplyDelta(_ context.Context, _ pgx.Tx, profileID uuid.UUID, delta domain.WalletUpdate) (*domain.Wallet, error) {
	w := f.byProfile[profileID]
	w.DepositedAmount += delta.Deposited
	w.WinningsAmount += delta.Winnings
	w.UpdatedAt = time.Now()
	return w, nil
}

// fakeTransactions appends entries like the real ledger table. findStale, when
// set, is returned by FindByID regardless of stored state, modelling a read
// that raced a concurrent status flip.
type fakeTransactions struct {
	entries   []*domain.Transaction
	findStale *domain.Transaction
}

func (f *fakeTransactions) FindExisting(_ context.Context, _ repository.DBTX, userID uuid.UUID, ref string) (*domain.Transaction, error) {
	for _, e := range f.entries {
		if e.UserID == userID && e.Ref != nil && *e.Ref == ref {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactions) Insert(_ context.Context, _ repository.DBTX, params domain.PostLedgerEntryParams, wallet *domain.Wallet) (*domain.Transaction, error) {
	entry := &domain.Transaction{
		ID:             uuid.New(),
		UserID:         params.UserID,
		Type:           params.Type,
		Amount:         params.Amount,
		Status:         params.Status,
		Game:           params.Game,
		Details:        params.Details,
		Ref:            params.Ref,
		BalanceAfter:   wallet.Total(),
		DepositedAfter: wallet.DepositedAmount,
		WinningsAfter:  wallet.WinningsAmount,
		Metadata:       params.Metadata,
		CreatedAt:      time.Now(),
	}
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeTransactions) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.Transaction, error) {
	if f.findStale != nil && f.findStale.ID == id {
		return f.findStale, nil
	}
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeTransactions) MarkStatus(_ context.Context, _ repository.DBTX, id uuid.UUID, from, to domain.TransactionStatus) (bool, error) {
	for _, e := range f.entries {
		if e.ID == id {
			if e.Status != from {
				return false, nil
			}
			e.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTransactions) ListByUser(context.Context, repository.DBTX, uuid.UUID, *string, int) ([]domain.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactions) ListRecent(context.Context, repository.DBTX, *domain.TransactionType, int) ([]domain.Transaction, error) {
	return nil, nil
}

func (f *fakeTransactions) countByType(txType domain.TransactionType) int {
	n := 0
	for _, e := range f.entries {
		if e.Type == txType {
			n++
		}
	}
	return n
}

type fakeOutbox struct{ drafts []domain.OutboxDraft }

func (f *fakeOutbox) Insert(_ context.Context, _ repository.DBTX, draft domain.OutboxDraft) error {
	f.drafts = append(f.drafts, draft)
	return nil
}

// fakeUTRs mirrors the repository contract: MarkStatus is conditional on
// pending and stamps ApprovedAt on approval only. findStale, when set, is
// returned by FindByID to model a read racing a concurrent flip.
type fakeUTRs struct {
	subs      map[uuid.UUID]*domain.UTRSubmission
	findStale *domain.UTRSubmission
}

func newFakeUTRs(subs ...*domain.UTRSubmission) *fakeUTRs {
	f := &fakeUTRs{subs: make(map[uuid.UUID]*domain.UTRSubmission)}
	for _, s := range subs {
		f.subs[s.ID] = s
	}
	return f
}

func (f *fakeUTRs) Insert(_ context.Context, _ repository.DBTX, sub *domain.UTRSubmission) error {
	f.subs[sub.ID] = sub
	return nil
}

func (f *fakeUTRs) FindByID(_ context.Context, _ repository.DBTX, id uuid.UUID) (*domain.UTRSubmission, error) {
	if f.findStale != nil && f.findStale.ID == id {
		return f.findStale, nil
	}
	return f.subs[id], nil
}

func (f *fakeUTRs) ListByUser(context.Context, repository.DBTX, uuid.UUID, int) ([]domain.UTRSubmission, error) {
	return nil, nil
}

func (f *fakeUTRs) ListPending(context.Context, repository.DBTX, int) ([]domain.UTRSubmission, error) {
	return nil, nil
}

func (f *fakeUTRs) MarkStatus(_ context.Context, _ repository.DBTX, id uuid.UUID, to string) (bool, error) {
	s := f.subs[id]
	if s == nil || s.Status != domain.UTRPending {
		return false, nil
	}
	s.Status = to
	if to == domain.UTRApproved {
		now := time.Now()
		s.ApprovedAt = &now
	}
	return true, nil
}

type fakeAuthUsers struct{ byEmail map[string]*domain.AuthUser }

func newFakeAuthUsers(users ...*domain.AuthUser) *fakeAuthUsers {
	f := &fakeAuthUsers{byEmail: make(map[string]*domain.AuthUser)}
	for _, u := range users {
		f.byEmail[u.Email] = u
	}
	return f
}

func (f *fakeAuthUsers) FindByEmail(_ context.Context, _ repository.DBTX, email string) (*domain.AuthUser, error) {
	return f.byEmail[email], nil
}

func (f *fakeAuthUsers) Create(_ context.Context, _ repository.DBTX, user *domain.AuthUser) error {
	f.byEmail[user.Email] = user
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(profiles *fakeProfiles, wallets *fakeWallets, txs *fakeTransactions, outbox *fakeOutbox) *ledger.Engine {
	return ledger.NewEngine(profiles, wallets, txs, outbox)
}

package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/projection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type walletFixture struct {
	svc      *WalletService
	user     uuid.UUID
	txs      *fakeTransactions
	wallets  *fakeWallets
	profiles *fakeProfiles
}

func newWalletFixture(deposited, winnings int64) *walletFixture {
	user := uuid.New()
	profiles := newFakeProfiles(&domain.Profile{
		ID: user, UserCode: "PLAYER", Role: domain.RolePlayer,
		Status: domain.ProfileActive, WalletBalance: deposited + winnings,
	})
	wallets := newFakeWallets(&domain.Wallet{
		ProfileID: user, DepositedAmount: deposited, WinningsAmount: winnings,
	})
	txs := &fakeTransactions{}
	outbox := &fakeOutbox{}

	svc := NewWalletService(memDB{}, newTestLedger(profiles, wallets, txs, outbox),
		wallets, profiles, txs, projection.NewInMemoryStore(), discardLogger())

	return &walletFixture{svc: svc, user: user, txs: txs, wallets: wallets, profiles: profiles}
}

func (f *walletFixture) withdraw(t *testing.T, amount int64) *domain.Transaction {
	t.Helper()
	result, err := f.svc.Withdraw(context.Background(), f.user, amount)
	require.NoError(t, err)
	require.NotNil(t, result.Transaction)
	return result.Transaction
}

func TestWithdrawDebitsWinningsFirst(t *testing.T) {
	f := newWalletFixture(100000, 50000)

	entry := f.withdraw(t, 60000)
	assert.Equal(t, domain.TxWithdrawal, entry.Type)
	assert.Equal(t, domain.TxPending, entry.Status)

	// 50000 from winnings, the remaining 10000 from principal.
	assert.Equal(t, int64(0), f.wallets.byProfile[f.user].WinningsAmount)
	assert.Equal(t, int64(90000), f.wallets.byProfile[f.user].DepositedAmount)
	assert.Equal(t, int64(90000), f.profiles.byID[f.user].WalletBalance)
}

func TestCompleteWithdrawalOnce(t *testing.T) {
	f := newWalletFixture(100000, 50000)
	entry := f.withdraw(t, 60000)

	require.NoError(t, f.svc.CompleteWithdrawal(context.Background(), entry.ID, true))
	assert.Equal(t, domain.TxCompleted, entry.Status)
	assert.Equal(t, 0, f.txs.countByType(domain.TxDeposit))

	// Completing again, with either verdict, is rejected and moves no money.
	err := f.svc.CompleteWithdrawal(context.Background(), entry.ID, true)
	assertAlreadyProcessed(t, err)
	err = f.svc.CompleteWithdrawal(context.Background(), entry.ID, false)
	assertAlreadyProcessed(t, err)
	assert.Equal(t, 0, f.txs.countByType(domain.TxDeposit))
	assert.Equal(t, int64(90000), f.profiles.byID[f.user].WalletBalance)
}

func TestCompleteWithdrawalFailureRefundsOnce(t *testing.T) {
	f := newWalletFixture(100000, 50000)
	entry := f.withdraw(t, 60000)

	require.NoError(t, f.svc.CompleteWithdrawal(context.Background(), entry.ID, false))
	assert.Equal(t, domain.TxFailed, entry.Status)

	require.Equal(t, 1, f.txs.countByType(domain.TxDeposit))
	var refund *domain.Transaction
	for _, e := range f.txs.entries {
		if e.Type == domain.TxDeposit {
			refund = e
		}
	}
	require.NotNil(t, refund.Ref)
	assert.Equal(t, fmt.Sprintf("withdraw-refund-%s", entry.ID), *refund.Ref)
	assert.Equal(t, int64(150000), f.profiles.byID[f.user].WalletBalance)

	err := f.svc.CompleteWithdrawal(context.Background(), entry.ID, false)
	assertAlreadyProcessed(t, err)
	assert.Equal(t, 1, f.txs.countByType(domain.TxDeposit))
	assert.Equal(t, int64(150000), f.profiles.byID[f.user].WalletBalance)
}

func TestCompleteWithdrawalRacingFlip(t *testing.T) {
	f := newWalletFixture(100000, 50000)
	entry := f.withdraw(t, 60000)

	// Another operator completed between this request's read and its flip:
	// the read still shows pending, the conditional update sees otherwise.
	stale := *entry
	f.txs.findStale = &stale
	entry.Status = domain.TxCompleted

	err := f.svc.CompleteWithdrawal(context.Background(), entry.ID, false)
	assertAlreadyProcessed(t, err)
	assert.Equal(t, domain.TxCompleted, entry.Status)
	assert.Equal(t, 0, f.txs.countByType(domain.TxDeposit))
	assert.Equal(t, int64(90000), f.profiles.byID[f.user].WalletBalance)
}

func TestCompleteWithdrawalRejectsNonWithdrawal(t *testing.T) {
	f := newWalletFixture(100000, 0)
	deposit := &domain.Transaction{
		ID: uuid.New(), UserID: f.user, Type: domain.TxDeposit,
		Amount: 10000, Status: domain.TxCompleted,
	}
	f.txs.entries = append(f.txs.entries, deposit)

	err := f.svc.CompleteWithdrawal(context.Background(), deposit.ID, true)
	var appErr *domain.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mizan-erp/mizan_backend/internal/apperrors"
	"github.com/mizan-erp/mizan_backend/internal/core/domain"
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/core/services"
	"github.com/mizan-erp/mizan_backend/internal/dto"
)

var fixedNow = time.Date(2024, 5, 15, 10, 0, 0, 0, time.UTC)

func d(value string) decimal.Decimal {
	dec, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return dec
}

func i64ptr(v int64) *int64 { return &v }

// --- Test Suite Setup ---

type TransactionServiceTestSuite struct {
	suite.Suite
	mockTxnRepo     *MockTransactionRepository
	mockAccountRepo *MockAccountRepository
	mockJournalRepo *MockJournalRepository
	service         portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.service = services.NewTransactionService(suite.mockTxnRepo, suite.mockAccountRepo, suite.mockJournalRepo, ports.FixedClock(fixedNow))
}

func activeAccount(id int64, balance string) *domain.Account {
	return &domain.Account{
		AccountID:   id,
		Code:        "MAIN_CASH",
		Name:        "Main Cash Box",
		AccountType: domain.CashBox,
		Category:    domain.CategoryAsset,
		Balance:     d(balance),
		IsActive:    true,
	}
}

// --- Test Cases ---

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Expense_Success() {
	ctx := context.Background()
	account := activeAccount(1, "1000")

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Expense,
		Amount:          d("300"),
		Category:        "Materials",
		Date:            "2024-05-15",
		SourceAccountID: i64ptr(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(account, nil).Once()

	suite.mockTxnRepo.On("SaveProcessed", ctx,
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.TransactionType == domain.Expense &&
				txn.State == domain.Cleared &&
				txn.Amount.Equal(d("300")) &&
				txn.ReferenceNo != ""
		}),
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			// Single-account movements journal as self-referencing entries.
			return entry.DebitAccountID == 1 && entry.CreditAccountID == 1 &&
				entry.Amount.Equal(d("300")) &&
				entry.ReferenceType == domain.RefTransaction
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return len(deltas) == 1 && deltas[1].Equal(d("-300"))
		}),
	).Return(&domain.Transaction{TransactionID: 42, TransactionType: domain.Expense, Amount: d("300"), State: domain.Cleared}, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(int64(42), txn.TransactionID)
	suite.Equal(domain.Cleared, txn.State)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Expense_InsufficientBalance() {
	ctx := context.Background()
	account := activeAccount(1, "1000")

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Expense,
		Amount:          d("1500"),
		Date:            "2024-05-15",
		SourceAccountID: i64ptr(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(account, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	var insufficientErr *apperrors.InsufficientBalanceError
	suite.Require().ErrorAs(err, &insufficientErr)
	suite.True(insufficientErr.Attempted.Equal(d("1500")))
	suite.True(insufficientErr.Available.Equal(d("1000")))

	// Nothing was persisted: rejection happens before any mutation.
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Income_Success() {
	ctx := context.Background()
	account := activeAccount(1, "1000")

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Income,
		Amount:          d("250.50"),
		Date:            "2024-05-15",
		SourceAccountID: i64ptr(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveProcessed", ctx,
		mock.AnythingOfType("domain.Transaction"),
		mock.AnythingOfType("domain.JournalEntry"),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return deltas[1].Equal(d("250.50"))
		}),
	).Return(&domain.Transaction{TransactionID: 7, TransactionType: domain.Income, Amount: d("250.50"), State: domain.Cleared}, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(7), txn.TransactionID)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Income_MissingAccount() {
	ctx := context.Background()

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Income,
		Amount:          d("100"),
		Date:            "2024-05-15",
	}

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_InactiveAccount() {
	ctx := context.Background()
	account := activeAccount(1, "1000")
	account.IsActive = false

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Income,
		Amount:          d("100"),
		Date:            "2024-05-15",
		SourceAccountID: i64ptr(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(account, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrAccountNotFound)
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Transfer_Success() {
	ctx := context.Background()
	source := activeAccount(1, "1000")
	destination := activeAccount(2, "50")

	req := dto.ProcessTransactionRequest{
		TransactionType:      domain.Transfer,
		Amount:               d("400"),
		Date:                 "2024-05-15",
		SourceAccountID:      i64ptr(1),
		DestinationAccountID: i64ptr(2),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()
	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(2)).Return(destination, nil).Once()

	suite.mockTxnRepo.On("SaveProcessed", ctx,
		mock.AnythingOfType("domain.Transaction"),
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			// Transfers debit the destination and credit the source.
			return entry.DebitAccountID == 2 && entry.CreditAccountID == 1
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return deltas[1].Equal(d("-400")) && deltas[2].Equal(d("400"))
		}),
	).Return(&domain.Transaction{TransactionID: 9, TransactionType: domain.Transfer, Amount: d("400"), State: domain.Cleared}, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(9), txn.TransactionID)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Transfer_InsufficientBalance() {
	ctx := context.Background()
	source := activeAccount(1, "1000")

	req := dto.ProcessTransactionRequest{
		TransactionType:      domain.Transfer,
		Amount:               d("1500"),
		Date:                 "2024-05-15",
		SourceAccountID:      i64ptr(1),
		DestinationAccountID: i64ptr(2),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)

	var insufficientErr *apperrors.InsufficientBalanceError
	suite.Require().ErrorAs(err, &insufficientErr)
	suite.True(insufficientErr.Attempted.Equal(d("1500")))
	suite.True(insufficientErr.Available.Equal(d("1000")))

	// The source balance check fails before the destination is even looked
	// up, and nothing is persisted.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", ctx, int64(2))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveProcessed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_Transfer_SameAccount() {
	ctx := context.Background()
	source := activeAccount(1, "1000")

	req := dto.ProcessTransactionRequest{
		TransactionType:      domain.Transfer,
		Amount:               d("400"),
		Date:                 "2024-05-15",
		SourceAccountID:      i64ptr(1),
		DestinationAccountID: i64ptr(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(source, nil).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_NonPositiveAmount() {
	ctx := context.Background()

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Expense,
		Amount:          d("0"),
		Date:            "2024-05-15",
		SourceAccountID: i64ptr(1),
	}

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestInsertTransaction_Expense() {
	ctx := context.Background()

	req := dto.InsertTransactionRequest{
		TransactionType: domain.Expense,
		Amount:          d("75"),
		Date:            "2024-05-15",
		AccountID:       3,
	}

	suite.mockTxnRepo.On("SaveUnvalidated", ctx,
		mock.MatchedBy(func(txn domain.Transaction) bool {
			return txn.State == domain.Pending &&
				txn.LegacyAccountID != nil && *txn.LegacyAccountID == 3 &&
				txn.SourceAccountID == nil
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			return deltas[3].Equal(d("-75"))
		}),
	).Return(int64(11), nil).Once()

	transactionID, err := suite.service.InsertTransaction(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(int64(11), transactionID)

	// The legacy path never consults account state.
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "FindAccountByID", mock.Anything, mock.Anything)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestInsertTransaction_TransferRejected() {
	ctx := context.Background()

	req := dto.InsertTransactionRequest{
		TransactionType: domain.Transfer,
		Amount:          d("75"),
		Date:            "2024-05-15",
		AccountID:       3,
	}

	transactionID, err := suite.service.InsertTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Zero(transactionID)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_Expense() {
	ctx := context.Background()
	entryID := int64(5)
	original := &domain.Transaction{
		TransactionID:   42,
		TransactionType: domain.Expense,
		Amount:          d("300"),
		SourceAccountID: i64ptr(1),
		State:           domain.Cleared,
		JournalEntryID:  &entryID,
	}
	originalEntry := &domain.JournalEntry{
		EntryID:         entryID,
		DebitAccountID:  1,
		CreditAccountID: 1,
		Amount:          d("300"),
		ReferenceType:   domain.RefTransaction,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(42)).Return(original, nil).Once()
	suite.mockJournalRepo.On("FindEntryByID", ctx, entryID).Return(originalEntry, nil).Once()

	suite.mockTxnRepo.On("VoidTransaction", ctx, int64(42),
		mock.MatchedBy(func(entry domain.JournalEntry) bool {
			return entry.IsReversing &&
				entry.ReversedEntryID != nil && *entry.ReversedEntryID == entryID &&
				entry.Amount.Equal(d("300"))
		}),
		mock.MatchedBy(func(deltas map[int64]decimal.Decimal) bool {
			// Reversing an expense restores the money.
			return deltas[1].Equal(d("300"))
		}),
		fixedNow,
	).Return(&domain.JournalEntry{EntryID: 6, IsReversing: true}, nil).Once()

	txn, err := suite.service.ReverseTransaction(ctx, 42)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.Equal(domain.Void, txn.State)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_AlreadyVoid() {
	ctx := context.Background()
	original := &domain.Transaction{
		TransactionID:   42,
		TransactionType: domain.Expense,
		Amount:          d("300"),
		SourceAccountID: i64ptr(1),
		State:           domain.Void,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(42)).Return(original, nil).Once()

	txn, err := suite.service.ReverseTransaction(ctx, 42)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrTransactionAlreadyVoid)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "VoidTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_LegacyRowRejected() {
	ctx := context.Background()
	original := &domain.Transaction{
		TransactionID:   42,
		TransactionType: domain.Expense,
		Amount:          d("300"),
		LegacyAccountID: i64ptr(1),
		State:           domain.Pending,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(42)).Return(original, nil).Once()

	txn, err := suite.service.ReverseTransaction(ctx, 42)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestListTransactionsByAccount_ClampsPageSize() {
	ctx := context.Background()

	suite.mockTxnRepo.On("ListTransactionsByAccount", ctx, int64(1), 100, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	res, err := suite.service.ListTransactionsByAccount(ctx, 1, dto.ListTransactionsParams{Limit: 5000})

	suite.Require().NoError(err)
	suite.Require().NotNil(res)
	suite.Empty(res.Transactions)
	suite.Nil(res.NextToken)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestReverseTransaction_NotFound() {
	ctx := context.Background()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, int64(999)).Return(nil, apperrors.ErrTransactionNotFound).Once()

	txn, err := suite.service.ReverseTransaction(ctx, 999)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrTransactionNotFound)
}

func (suite *TransactionServiceTestSuite) TestProcessTransaction_RepoError() {
	ctx := context.Background()
	account := activeAccount(1, "1000")
	expectedErr := assert.AnError

	req := dto.ProcessTransactionRequest{
		TransactionType: domain.Income,
		Amount:          d("10"),
		Date:            "2024-05-15",
		SourceAccountID: i64ptr(1),
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, int64(1)).Return(account, nil).Once()
	suite.mockTxnRepo.On("SaveProcessed", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil, expectedErr).Once()

	txn, err := suite.service.ProcessTransaction(ctx, req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, expectedErr)
}

// --- Run Test Suite ---

func TestTransactionService(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

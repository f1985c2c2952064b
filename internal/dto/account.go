package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mizan-erp/mizan_backend/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code           string                  `json:"code" binding:"required"`
	Name           string                  `json:"name" binding:"required"`
	AccountType    domain.AccountType      `json:"accountType" binding:"required,oneof=CASH_BOX BANK WALLET RECEIVABLE PAYABLE"`
	Category       *domain.AccountCategory `json:"category" binding:"omitempty,oneof=ASSET LIABILITY"`
	OpeningBalance *decimal.Decimal        `json:"openingBalance"` // Optional; posts an OPENING_BALANCE journal entry
	BankName       string                  `json:"bankName"`
	BankAccountNo  string                  `json:"bankAccountNo"`
}

// ListAccountsParams defines query parameters for account listings.
type ListAccountsParams struct {
	AccountType *domain.AccountType     `form:"type" binding:"omitempty,oneof=CASH_BOX BANK WALLET RECEIVABLE PAYABLE"`
	Category    *domain.AccountCategory `form:"category" binding:"omitempty,oneof=ASSET LIABILITY"`
	OnlyActive  bool                    `form:"active"`
}

// Filter converts the query parameters into a domain filter.
func (p ListAccountsParams) Filter() domain.AccountFilter {
	return domain.AccountFilter{
		AccountType: p.AccountType,
		Category:    p.Category,
		OnlyActive:  p.OnlyActive,
	}
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Balance is deliberately absent: it moves only through the transaction
// processor. Pointers distinguish "not provided" from zero values.
type UpdateAccountRequest struct {
	Name          *string `json:"name"`
	BankName      *string `json:"bankName"`
	BankAccountNo *string `json:"bankAccountNo"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     int64                  `json:"accountID"`
	Code          string                 `json:"code"`
	Name          string                 `json:"name"`
	AccountType   domain.AccountType     `json:"accountType"`
	Category      domain.AccountCategory `json:"category"`
	Balance       decimal.Decimal        `json:"balance"`
	IsActive      bool                   `json:"isActive"`
	IsSystem      bool                   `json:"isSystem"`
	BankName      string                 `json:"bankName,omitempty"`
	BankAccountNo string                 `json:"bankAccountNo,omitempty"`
	CreatedAt     string                 `json:"createdAt"`
	LastUpdatedAt string                 `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		Code:          acc.Code,
		Name:          acc.Name,
		AccountType:   acc.AccountType,
		Category:      acc.Category,
		Balance:       acc.Balance,
		IsActive:      acc.IsActive,
		IsSystem:      acc.IsSystem,
		BankName:      acc.BankName,
		BankAccountNo: acc.BankAccountNo,
		CreatedAt:     FormatTimestamp(acc.CreatedAt),
		LastUpdatedAt: FormatTimestamp(acc.LastUpdatedAt),
	}
}

// ToListAccountResponse converts a slice of accounts to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

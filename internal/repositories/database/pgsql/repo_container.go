package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
)

// RepositoryContainer bundles the pgsql repository facades.
type RepositoryContainer struct {
	Account     portsrepo.AccountRepositoryFacade
	Journal     portsrepo.JournalRepositoryFacade
	Transaction portsrepo.TransactionRepositoryFacade
	Payroll     portsrepo.PayrollRepositoryFacade
	Worker      portsrepo.WorkerRepositoryFacade
}

// NewRepositoryContainer wires the repositories against one pgx pool. The
// transaction and payroll repositories receive the account and journal
// repositories so their atomic units can lock balances and append entries.
func NewRepositoryContainer(dbPool *pgxpool.Pool) *RepositoryContainer {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, accountRepo, journalRepo)
	payrollRepo := newPgxPayrollRepository(dbPool, accountRepo, journalRepo)
	workerRepo := newPgxWorkerRepository(dbPool)

	return &RepositoryContainer{
		Account:     accountRepo,
		Journal:     journalRepo,
		Transaction: transactionRepo,
		Payroll:     payrollRepo,
		Worker:      workerRepo,
	}
}

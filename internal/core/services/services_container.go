package services

import (
	"github.com/mizan-erp/mizan_backend/internal/core/ports"
	portsrepo "github.com/mizan-erp/mizan_backend/internal/core/ports/repositories"
	portssvc "github.com/mizan-erp/mizan_backend/internal/core/ports/services"
	"github.com/mizan-erp/mizan_backend/internal/repositories/database/pgsql"
)

// NewServiceContainer wires every service against the pgsql repository
// container and a shared clock.
func NewServiceContainer(repos *pgsql.RepositoryContainer, clock ports.Clock) *portssvc.ServiceContainer {
	return newServiceContainer(repos.Account, repos.Journal, repos.Transaction, repos.Payroll, repos.Worker, clock)
}

func newServiceContainer(
	accountRepo portsrepo.AccountRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	payrollRepo portsrepo.PayrollRepositoryFacade,
	workerRepo portsrepo.WorkerRepositoryFacade,
	clock ports.Clock,
) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account:     NewAccountService(accountRepo, txnRepo, clock),
		Journal:     NewJournalService(journalRepo, clock),
		Transaction: NewTransactionService(txnRepo, accountRepo, journalRepo, clock),
		Payroll:     NewPayrollService(payrollRepo, workerRepo, accountRepo, clock),
		Statement:   NewStatementService(accountRepo, txnRepo),
		Worker:      NewWorkerService(workerRepo, clock),
	}
}

package services

import (
	portsrepo "github.com/comercioapp/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/comercioapp/ledger_backend/internal/core/ports/services"
)

// NewServiceContainer wires all application services from the repository
// provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo),
		Product: NewProductService(repos.ProductRepo),
		Ledger: NewLedgerService(
			repos.TransactionRepo,
			repos.AccountRepo,
			repos.ProductRepo,
			repos.GlobalBalanceRepo,
		),
		GlobalBalance: NewGlobalBalanceService(repos.GlobalBalanceRepo),
		User:          NewUserService(repos.UserRepo),
		Reporting:     NewReportingService(repos.ReportingRepo),
	}
}

package reports

import "github.com/go-chi/chi/v5"

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/companies/{companyID}/trial-balance", h.TrialBalance)
	r.Get("/companies/{companyID}/general-ledger/{accountID}", h.GeneralLedger)
	r.Get("/companies/{companyID}/income-statement", h.IncomeStatement)
	r.Get("/companies/{companyID}/balance-sheet", h.BalanceSheet)
	r.Get("/companies/{companyID}/account-balances", h.AccountBalances)
	r.Get("/consolidated/{companyID}/balance-sheet", h.ConsolidatedBalanceSheet)
	r.Get("/consolidated/{companyID}/dashboard", h.GlobalDashboard)
}

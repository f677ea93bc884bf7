package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/banco/internal/banking"
)

// RegisterBankingRoutes wires client, account and transaction endpoints.
func RegisterBankingRoutes(r fiber.Router, h *banking.Handler) {
	r.Post("/clients", h.RegisterClient)
	r.Get("/clients/:taxId", h.Client)
	r.Get("/clients/:taxId/accounts", h.ClientAccounts)
	r.Post("/clients/:taxId/accounts", h.OpenAccount)
	r.Post("/clients/:taxId/accounts/:number/deposits", h.Deposit)
	r.Post("/clients/:taxId/accounts/:number/withdrawals", h.Withdraw)

	r.Get("/accounts", h.ListAccounts)
	r.Get("/accounts/:number/statement", h.Statement)
	r.Get("/accounts/:number/transactions", h.Transactions)
}

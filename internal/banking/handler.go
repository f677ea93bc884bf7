package banking

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/congo-pay/banco/internal/account"
	"github.com/congo-pay/banco/internal/identity"
	"github.com/congo-pay/banco/internal/ledger"
)

// Handler exposes the banking HTTP endpoints.
type Handler struct {
	service  *Service
	defaults account.Limits
}

// NewHandler builds a banking handler. defaults fill in the limits omitted
// from account-opening requests.
func NewHandler(service *Service, defaults account.Limits) *Handler {
	return &Handler{service: service, defaults: defaults}
}

type registerRequest struct {
	TaxID     string `json:"tax_id"`
	FullName  string `json:"full_name"`
	BirthDate string `json:"birth_date"`
	Address   string `json:"address"`
}

type openAccountRequest struct {
	Type                 string           `json:"type"`
	PerWithdrawalCap     *decimal.Decimal `json:"per_withdrawal_cap"`
	DailyWithdrawalLimit *int             `json:"daily_withdrawal_limit"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type receiptResponse struct {
	TransactionID int64           `json:"transaction_id"`
	Type          ledger.Kind     `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	AccountNumber int             `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
	CompletedAt   time.Time       `json:"completed_at"`
}

type transactionResponse struct {
	ID        int64           `json:"id"`
	Type      ledger.Kind     `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

// RegisterClient registers a natural-person client.
func (h *Handler) RegisterClient(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	client, err := h.service.RegisterClient(c.UserContext(), identity.RegisterInput{
		TaxID:     req.TaxID,
		FullName:  req.FullName,
		BirthDate: req.BirthDate,
		Address:   req.Address,
	})
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(client.Profile())
}

// Client returns the profile of a registered client.
func (h *Handler) Client(c *fiber.Ctx) error {
	client, err := h.service.FindClient(c.UserContext(), c.Params("taxId"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(client.Profile())
}

// ClientAccounts lists the accounts of one client.
func (h *Handler) ClientAccounts(c *fiber.Ctx) error {
	client, err := h.service.FindClient(c.UserContext(), c.Params("taxId"))
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(account.Summarize(client.Accounts()))
}

// OpenAccount opens an account for the client named in the path.
func (h *Handler) OpenAccount(c *fiber.Ctx) error {
	var req openAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	client, err := h.service.FindClient(c.UserContext(), c.Params("taxId"))
	if err != nil {
		return toFiberError(err)
	}

	var acct *account.Account
	switch strings.ToLower(strings.TrimSpace(req.Type)) {
	case "", "limited", strings.ToLower(string(account.KindLimitedWithdrawal)):
		limits := h.defaults
		if req.PerWithdrawalCap != nil {
			limits.PerWithdrawalCap = *req.PerWithdrawalCap
		}
		if req.DailyWithdrawalLimit != nil {
			limits.DailyWithdrawals = *req.DailyWithdrawalLimit
		}
		acct, err = h.service.OpenAccount(c.UserContext(), client, limits.PerWithdrawalCap, limits.DailyWithdrawals)
	case "standard", strings.ToLower(string(account.KindStandard)):
		acct, err = h.service.OpenStandardAccount(c.UserContext(), client)
	default:
		return fiber.NewError(http.StatusBadRequest, "unknown account type "+req.Type)
	}
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(acct.Summary())
}

// Deposit credits an account of the client named in the path.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	return h.move(c, h.service.Deposit)
}

// Withdraw debits an account of the client named in the path.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	return h.move(c, h.service.Withdraw)
}

type moveFunc func(ctx context.Context, client *identity.Client, acct *account.Account, amount decimal.Decimal) (Receipt, error)

func (h *Handler) move(c *fiber.Ctx, fn moveFunc) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	number, err := c.ParamsInt("number")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid account number")
	}
	client, err := h.service.FindClient(c.UserContext(), c.Params("taxId"))
	if err != nil {
		return toFiberError(err)
	}
	acct, err := h.service.FindAccount(c.UserContext(), number)
	if err != nil {
		return toFiberError(err)
	}

	receipt, err := fn(c.UserContext(), client, acct, req.Amount)
	if err != nil {
		return toFiberError(err)
	}
	return c.Status(http.StatusCreated).JSON(receiptResponse{
		TransactionID: receipt.TransactionID,
		Type:          receipt.Kind,
		Amount:        receipt.Amount,
		AccountNumber: receipt.AccountNumber,
		Balance:       receipt.Balance,
		CompletedAt:   receipt.CompletedAt,
	})
}

// ListAccounts returns every account in the bank.
func (h *Handler) ListAccounts(c *fiber.Ctx) error {
	summaries, err := h.service.ListAccounts(c.UserContext())
	if err != nil {
		return toFiberError(err)
	}
	return c.JSON(summaries)
}

// Statement renders the plain-text statement of an account.
func (h *Handler) Statement(c *fiber.Ctx) error {
	acct, err := h.account(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(h.service.Statement(acct))
}

// Transactions lists an account's transactions, optionally filtered by ?kind=.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	acct, err := h.account(c)
	if err != nil {
		return err
	}
	txs := h.service.Transactions(acct, c.Query("kind"))
	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, transactionResponse{
			ID:        tx.ID(),
			Type:      tx.Kind(),
			Amount:    tx.Amount(),
			Timestamp: tx.Timestamp().UTC(),
		})
	}
	return c.JSON(out)
}

func (h *Handler) account(c *fiber.Ctx) (*account.Account, error) {
	number, err := c.ParamsInt("number")
	if err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid account number")
	}
	acct, err := h.service.FindAccount(c.UserContext(), number)
	if err != nil {
		return nil, toFiberError(err)
	}
	return acct, nil
}

func toFiberError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidLimits),
		errors.Is(err, identity.ErrInvalidRegistration):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrPerWithdrawalCapExceeded),
		errors.Is(err, ledger.ErrDailyLimitExceeded),
		errors.Is(err, ledger.ErrDepositCeilingExceeded):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, identity.ErrAccountNotOwned):
		return fiber.NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, identity.ErrDuplicateClient):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, identity.ErrClientNotFound), errors.Is(err, ErrAccountNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}

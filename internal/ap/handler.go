package ap

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
	"github.com/openbooks-hq/openbooks/internal/platform/httpx"
)

type Handler struct {
	service  *Service
	logger   *slog.Logger
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger, validate: validator.New()}
}

type createLineRequest struct {
	ItemID      string `json:"itemId" validate:"omitempty,uuid"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Rate        string `json:"rate"`
	Discount    string `json:"discount"`
	Amount      string `json:"amount" validate:"required"`
}

type createBillRequest struct {
	CompanyID  string              `json:"companyId" validate:"required,uuid"`
	ContactID  string              `json:"contactId" validate:"required,uuid"`
	BillNumber string              `json:"billNumber" validate:"required"`
	Date       string              `json:"date" validate:"required,datetime=2006-01-02"`
	DueDate    string              `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Currency   string              `json:"currency" validate:"omitempty,len=3"`
	Status     string              `json:"status" validate:"omitempty,oneof=draft sent partial overdue paid cancelled"`
	Notes      string              `json:"notes"`
	Lines      []createLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.toInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	bill, err := h.service.CreateBillWithLines(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, bill)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	bills, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bills)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, billID, err := pathIDs(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	bill, err := h.service.Get(r.Context(), companyID, billID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bill)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, billID, err := pathIDs(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if err := h.service.DeleteBillWithRelated(r.Context(), companyID, billID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Aging(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	var asOf time.Time
	if raw := r.URL.Query().Get("asOfDate"); raw != "" {
		asOf, err = time.Parse("2006-01-02", raw)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "asOfDate must be YYYY-MM-DD")
			return
		}
	}
	report, err := h.service.AgingReport(r.Context(), companyID, asOf)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrEmptyDocument), errors.Is(err, shared.ErrNegativeAmount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrBillNotFound), errors.Is(err, shared.ErrCompanyNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("bill request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func (req createBillRequest) toInput() (BillInput, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return BillInput{}, err
	}
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		return BillInput{}, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return BillInput{}, err
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return BillInput{}, err
	}
	lines := make([]LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		line := LineInput{
			Description: l.Description,
			Quantity:    parseAmount(l.Quantity),
			Rate:        parseAmount(l.Rate),
			Discount:    parseAmount(l.Discount),
			Amount:      parseAmount(l.Amount),
		}
		if l.ItemID != "" {
			id, err := uuid.Parse(l.ItemID)
			if err != nil {
				return BillInput{}, err
			}
			line.ItemID = &id
		}
		lines = append(lines, line)
	}
	return BillInput{
		CompanyID:  companyID,
		ContactID:  contactID,
		BillNumber: req.BillNumber,
		Date:       date,
		DueDate:    dueDate,
		Currency:   req.Currency,
		Status:     req.Status,
		Notes:      req.Notes,
		Lines:      lines,
	}, nil
}

// parseAmount treats blank or malformed numerics as zero, consistent with
// how posting amounts are parsed.
func parseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func pathIDs(r *http.Request) (companyID, billID uuid.UUID, err error) {
	companyID, err = uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	billID, err = uuid.Parse(chi.URLParam(r, "billID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return companyID, billID, nil
}

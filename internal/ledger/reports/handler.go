package reports

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openbooks-hq/openbooks/internal/ledger/shared"
	"github.com/openbooks-hq/openbooks/internal/platform/httpx"
)

type Handler struct {
	service *Service
	logger  *slog.Logger
	now     func() time.Time
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{service: service, logger: logger, now: time.Now}
}

func (h *Handler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	start, end, err := rangeParams(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
		return
	}
	tb, err := h.service.TrialBalance(r.Context(), companyID, start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tb)
}

func (h *Handler) GeneralLedger(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Account", err.Error())
		return
	}
	start, end, err := rangeParams(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
		return
	}
	gl, err := h.service.GeneralLedger(r.Context(), companyID, accountID, start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, gl)
}

func (h *Handler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	start, end, err := rangeParams(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date Range", err.Error())
		return
	}
	is, err := h.service.IncomeStatement(r.Context(), companyID, start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, is)
}

func (h *Handler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	asOf, err := h.asOfParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	bs, err := h.service.BalanceSheet(r.Context(), companyID, asOf)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, bs)
}

func (h *Handler) ConsolidatedBalanceSheet(w http.ResponseWriter, r *http.Request) {
	parentID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	asOf, err := h.asOfParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	cbs, err := h.service.ConsolidatedBalanceSheet(r.Context(), parentID, asOf)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cbs)
}

func (h *Handler) GlobalDashboard(w http.ResponseWriter, r *http.Request) {
	parentID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	dash, err := h.service.GlobalDashboard(r.Context(), parentID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) AccountBalances(w http.ResponseWriter, r *http.Request) {
	companyID, err := companyParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	start, err := optionalDateParam(r, "startDate")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	end, err := optionalDateParam(r, "endDate")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", err.Error())
		return
	}
	rows, err := h.service.AccountBalances(r.Context(), companyID, start, end)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrCompanyNotFound), errors.Is(err, shared.ErrAccountNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("report request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func companyParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "companyID"))
}

// rangeParams parses the required startDate and endDate query parameters.
func rangeParams(r *http.Request) (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", r.URL.Query().Get("startDate"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("startDate must be YYYY-MM-DD")
	}
	end, err = time.Parse("2006-01-02", r.URL.Query().Get("endDate"))
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("endDate must not precede startDate")
	}
	return start, end, nil
}

// asOfParam parses asOfDate, defaulting to today.
func (h *Handler) asOfParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("asOfDate")
	if raw == "" {
		return h.now().UTC().Truncate(24 * time.Hour), nil
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.New("asOfDate must be YYYY-MM-DD")
	}
	return asOf, nil
}

func optionalDateParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.New(name + " must be YYYY-MM-DD")
	}
	return &t, nil
}

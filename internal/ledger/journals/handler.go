package journals

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/openbooks-hq/openbooks/internal/ledger/posting"
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
	AccountID    string `json:"accountId" validate:"required,uuid"`
	Description  string `json:"description"`
	Debit        string `json:"debit"`
	Credit       string `json:"credit"`
	Currency     string `json:"currency" validate:"omitempty,len=3"`
	FxRate       string `json:"fxRate"`
	ProjectID    string `json:"projectId" validate:"omitempty,uuid"`
	CostCenterID string `json:"costCenterId" validate:"omitempty,uuid"`
}

type createJournalRequest struct {
	CompanyID     string              `json:"companyId" validate:"required,uuid"`
	JournalNumber string              `json:"journalNumber" validate:"required"`
	Date          string              `json:"date" validate:"required,datetime=2006-01-02"`
	Description   string              `json:"description"`
	Reference     string              `json:"reference"`
	SourceType    string              `json:"sourceType"`
	Lines         []createLineRequest `json:"lines" validate:"required,min=1,dive"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createJournalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	input, err := req.toPostingInput()
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	journal, err := h.service.CreateJournalWithLines(r.Context(), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, journal)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	companyID, err := uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Company", err.Error())
		return
	}
	entries, err := h.service.List(r.Context(), companyID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	companyID, journalID, err := pathIDs(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	journal, err := h.service.Get(r.Context(), companyID, journalID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, journal)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	companyID, journalID, err := pathIDs(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	if err := h.service.DeleteJournalWithLines(r.Context(), companyID, journalID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reverseJournalRequest struct {
	ReversingDate string `json:"reversingDate" validate:"required,datetime=2006-01-02"`
	Reason        string `json:"reason" validate:"required"`
}

func (h *Handler) Reverse(w http.ResponseWriter, r *http.Request) {
	companyID, journalID, err := pathIDs(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	}
	var req reverseJournalRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	reversingDate, _ := time.Parse("2006-01-02", req.ReversingDate)
	reversal, err := h.service.ReverseJournalEntry(r.Context(), journalID, companyID, reversingDate, req.Reason)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, reversal)
}

// respondError surfaces balance errors verbatim (they carry concrete totals)
// and maps the rest of the ledger taxonomy onto HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var balErr *posting.BalanceError
	switch {
	case errors.As(err, &balErr):
		httpx.Problem(w, http.StatusBadRequest, "Unbalanced Journal", balErr.Error())
	case errors.Is(err, shared.ErrEmptyJournal), errors.Is(err, shared.ErrNegativeAmount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrJournalNotFound), errors.Is(err, shared.ErrCompanyNotFound), errors.Is(err, shared.ErrAccountNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("journal request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func (req createJournalRequest) toPostingInput() (PostingInput, error) {
	companyID, err := uuid.Parse(req.CompanyID)
	if err != nil {
		return PostingInput{}, err
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return PostingInput{}, err
	}
	sourceType := req.SourceType
	if sourceType == "" {
		sourceType = SourceManual
	}
	lines := make([]LineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		accountID, err := uuid.Parse(l.AccountID)
		if err != nil {
			return PostingInput{}, err
		}
		line := LineInput{
			AccountID:   accountID,
			Description: l.Description,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Currency:    l.Currency,
			FxRate:      l.FxRate,
		}
		if l.ProjectID != "" {
			id, err := uuid.Parse(l.ProjectID)
			if err != nil {
				return PostingInput{}, err
			}
			line.ProjectID = &id
		}
		if l.CostCenterID != "" {
			id, err := uuid.Parse(l.CostCenterID)
			if err != nil {
				return PostingInput{}, err
			}
			line.CostCenterID = &id
		}
		lines = append(lines, line)
	}
	return PostingInput{
		CompanyID:     companyID,
		JournalNumber: req.JournalNumber,
		Date:          date,
		Description:   req.Description,
		Reference:     req.Reference,
		SourceType:    sourceType,
		Lines:         lines,
	}, nil
}

func pathIDs(r *http.Request) (companyID, journalID uuid.UUID, err error) {
	companyID, err = uuid.Parse(chi.URLParam(r, "companyID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	journalID, err = uuid.Parse(chi.URLParam(r, "journalID"))
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return companyID, journalID, nil
}

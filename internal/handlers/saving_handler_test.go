package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "kaskita/internal/errors"
	"kaskita/internal/models"
	"kaskita/internal/projection"
	"kaskita/internal/services"
)

// --- mock saving and loan services ---

type mockSavingService struct {
	listSavingsFn  func(ctx context.Context, refresh bool) ([]projection.SavingProgress, error)
	createSavingFn func(ctx context.Context, in models.SavingInput) (*projection.SavingProgress, error)
	deleteSavingFn func(ctx context.Context, id models.ID) error
}

func (m *mockSavingService) ListSavings(ctx context.Context, refresh bool) ([]projection.SavingProgress, error) {
	if m.listSavingsFn != nil {
		return m.listSavingsFn(ctx, refresh)
	}
	return nil, nil
}

func (m *mockSavingService) CreateSaving(ctx context.Context, in models.SavingInput) (*projection.SavingProgress, error) {
	if m.createSavingFn != nil {
		return m.createSavingFn(ctx, in)
	}
	return &projection.SavingProgress{Saving: models.Saving{Name: in.Name}}, nil
}

func (m *mockSavingService) UpdateSaving(_ context.Context, id models.ID, in models.SavingInput) (*projection.SavingProgress, error) {
	return &projection.SavingProgress{Saving: models.Saving{Base: models.Base{ID: id}, Name: in.Name}}, nil
}

func (m *mockSavingService) DeleteSaving(ctx context.Context, id models.ID) error {
	if m.deleteSavingFn != nil {
		return m.deleteSavingFn(ctx, id)
	}
	return nil
}

var _ services.SavingServicer = (*mockSavingService)(nil)

type mockLoanService struct {
	listLoansFn  func(ctx context.Context, refresh bool) ([]projection.LoanProgress, error)
	createLoanFn func(ctx context.Context, in models.LoanInput) (*projection.LoanProgress, error)
}

func (m *mockLoanService) ListLoans(ctx context.Context, refresh bool) ([]projection.LoanProgress, error) {
	if m.listLoansFn != nil {
		return m.listLoansFn(ctx, refresh)
	}
	return nil, nil
}

func (m *mockLoanService) CreateLoan(ctx context.Context, in models.LoanInput) (*projection.LoanProgress, error) {
	if m.createLoanFn != nil {
		return m.createLoanFn(ctx, in)
	}
	return &projection.LoanProgress{Loan: models.Loan{Name: in.Name}}, nil
}

func (m *mockLoanService) UpdateLoan(_ context.Context, id models.ID, in models.LoanInput) (*projection.LoanProgress, error) {
	return &projection.LoanProgress{Loan: models.Loan{Base: models.Base{ID: id}, Name: in.Name}}, nil
}

func (m *mockLoanService) DeleteLoan(context.Context, models.ID) error { return nil }

var _ services.LoanServicer = (*mockLoanService)(nil)

func setupHoldingsRouter(savings *SavingHandler, loans *LoanHandler) *gin.Engine {
	r := gin.New()
	r.GET("/savings", savings.ListSavings)
	r.POST("/savings", savings.CreateSaving)
	r.PUT("/savings/:id", savings.UpdateSaving)
	r.DELETE("/savings/:id", savings.DeleteSaving)
	r.GET("/loans", loans.ListLoans)
	r.POST("/loans", loans.CreateLoan)
	r.PUT("/loans/:id", loans.UpdateLoan)
	r.DELETE("/loans/:id", loans.DeleteLoan)
	return r
}

func TestSavingHandler(t *testing.T) {
	t.Run("list totals the saved amount", func(t *testing.T) {
		svc := &mockSavingService{
			listSavingsFn: func(context.Context, bool) ([]projection.SavingProgress, error) {
				return projection.Savings([]models.Saving{
					{Base: models.Base{ID: "s-1"}, Name: "Liburan", TargetAmount: 1000000, CurrentAmount: 250000},
					{Base: models.Base{ID: "s-2"}, Name: "Darurat", TargetAmount: 500000, CurrentAmount: 100000},
				}), nil
			},
		}
		r := setupHoldingsRouter(NewSavingHandler(svc), NewLoanHandler(&mockLoanService{}))

		body := parseJSON(t, doRequest(r, http.MethodGet, "/savings", ""))
		if body["total_saved"] != "350000" {
			t.Errorf("expected total_saved 350000, got %v", body["total_saved"])
		}
		savings := body["savings"].([]interface{})
		first := savings[0].(map[string]interface{})
		if first["percent_complete"] != float64(25) {
			t.Errorf("expected 25%%, got %v", first["percent_complete"])
		}
	})

	t.Run("create surfaces invalid amounts", func(t *testing.T) {
		svc := &mockSavingService{
			createSavingFn: func(context.Context, models.SavingInput) (*projection.SavingProgress, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}
		r := setupHoldingsRouter(NewSavingHandler(svc), NewLoanHandler(&mockLoanService{}))

		rec := doRequest(r, http.MethodPost, "/savings", `{"name":"Minus","target_amount":"-1"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})

	t.Run("delete failure is reported", func(t *testing.T) {
		svc := &mockSavingService{
			deleteSavingFn: func(context.Context, models.ID) error { return apperrors.ErrDeleteSaving },
		}
		r := setupHoldingsRouter(NewSavingHandler(svc), NewLoanHandler(&mockLoanService{}))

		rec := doRequest(r, http.MethodDelete, "/savings/s-1", "")
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DELETE_SAVING_FAILED")
	})
}

func TestLoanHandler(t *testing.T) {
	t.Run("list returns repayment progress", func(t *testing.T) {
		svc := &mockLoanService{
			listLoansFn: func(context.Context, bool) ([]projection.LoanProgress, error) {
				return projection.Loans([]models.Loan{
					{Base: models.Base{ID: "l-1"}, Name: "KPR", Principal: 1000000, RemainingBalance: 600000},
				}), nil
			},
		}
		r := setupHoldingsRouter(NewSavingHandler(&mockSavingService{}), NewLoanHandler(svc))

		body := parseJSON(t, doRequest(r, http.MethodGet, "/loans", ""))
		loan := body["loans"].([]interface{})[0].(map[string]interface{})
		if loan["paid_amount"] != "400000" || loan["percent_paid"] != float64(40) {
			t.Errorf("unexpected loan progress %v", loan)
		}
	})

	t.Run("create requires a name", func(t *testing.T) {
		r := setupHoldingsRouter(NewSavingHandler(&mockSavingService{}), NewLoanHandler(&mockLoanService{}))

		rec := doRequest(r, http.MethodPost, "/loans", `{"principal":"1000"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("update and delete by id", func(t *testing.T) {
		r := setupHoldingsRouter(NewSavingHandler(&mockSavingService{}), NewLoanHandler(&mockLoanService{}))

		if rec := doRequest(r, http.MethodPut, "/loans/l-1", `{"name":"KPR"}`); rec.Code != http.StatusOK {
			t.Fatalf("update: expected 200, got %d", rec.Code)
		}
		if rec := doRequest(r, http.MethodDelete, "/loans/l-1", ""); rec.Code != http.StatusNoContent {
			t.Fatalf("delete: expected 204, got %d", rec.Code)
		}
	})
}

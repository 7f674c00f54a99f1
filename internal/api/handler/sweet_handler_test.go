package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-api/internal/core/domain"
	"github.com/sweetshop/inventory-api/internal/core/ports"
)

type stubInventoryService struct {
	listFn     func(ctx context.Context) ([]*domain.Sweet, error)
	searchFn   func(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error)
	getFn      func(ctx context.Context, id string) (*domain.Sweet, error)
	createFn   func(ctx context.Context, claims ports.TokenClaims, in ports.CreateSweetInput) (*domain.Sweet, error)
	updateFn   func(ctx context.Context, claims ports.TokenClaims, id string, in ports.UpdateSweetInput) (*domain.Sweet, error)
	deleteFn   func(ctx context.Context, claims ports.TokenClaims, id string) error
	purchaseFn func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error)
	restockFn  func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error)
}

func (s *stubInventoryService) List(ctx context.Context) ([]*domain.Sweet, error) {
	return s.listFn(ctx)
}

func (s *stubInventoryService) Search(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
	return s.searchFn(ctx, filter)
}

func (s *stubInventoryService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.getFn(ctx, id)
}

func (s *stubInventoryService) Create(ctx context.Context, claims ports.TokenClaims, in ports.CreateSweetInput) (*domain.Sweet, error) {
	return s.createFn(ctx, claims, in)
}

func (s *stubInventoryService) Update(ctx context.Context, claims ports.TokenClaims, id string, in ports.UpdateSweetInput) (*domain.Sweet, error) {
	return s.updateFn(ctx, claims, id, in)
}

func (s *stubInventoryService) Delete(ctx context.Context, claims ports.TokenClaims, id string) error {
	return s.deleteFn(ctx, claims, id)
}

func (s *stubInventoryService) Purchase(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
	return s.purchaseFn(ctx, claims, id, quantity)
}

func (s *stubInventoryService) Restock(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
	return s.restockFn(ctx, claims, id, quantity)
}

func newSweetContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withClaims(c echo.Context, role string) echo.Context {
	c.Set("claims", ports.TokenClaims{Subject: "user_1", Username: "tester", Role: role})
	return c
}

func TestSweetHandler_List(t *testing.T) {
	stub := &stubInventoryService{
		listFn: func(ctx context.Context) ([]*domain.Sweet, error) {
			return []*domain.Sweet{{ID: "sweet_1", Name: "Fudge"}, {ID: "sweet_2", Name: "Toffee"}}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodGet, "/api/sweets", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var sweets []*domain.Sweet
	if err := json.Unmarshal(rec.Body.Bytes(), &sweets); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(sweets) != 2 || sweets[0].Name != "Fudge" {
		t.Fatalf("unexpected payload: %+v", sweets)
	}
}

func TestSweetHandler_Search_PassesFilter(t *testing.T) {
	var got ports.SearchFilter
	stub := &stubInventoryService{
		searchFn: func(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
			got = filter
			return []*domain.Sweet{}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodGet, "/api/sweets/search?name=fudge&category=chocolate&minPrice=1.5&maxPrice=9.99", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Name != "fudge" || got.Category != "chocolate" {
		t.Fatalf("text filters not forwarded: %+v", got)
	}
	if got.MinPrice == nil || *got.MinPrice != 1.5 || got.MaxPrice == nil || *got.MaxPrice != 9.99 {
		t.Fatalf("price bounds not forwarded: %+v", got)
	}
}

func TestSweetHandler_Search_EmptyQueryMeansNoFilter(t *testing.T) {
	stub := &stubInventoryService{
		searchFn: func(ctx context.Context, filter ports.SearchFilter) ([]*domain.Sweet, error) {
			if !filter.Empty() {
				t.Fatalf("expected empty filter, got %+v", filter)
			}
			return []*domain.Sweet{}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodGet, "/api/sweets/search", "")
	if err := h.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}

func TestSweetHandler_Get_NotFoundPropagates(t *testing.T) {
	stub := &stubInventoryService{
		getFn: func(ctx context.Context, id string) (*domain.Sweet, error) {
			return nil, domain.ErrSweetNotFound
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodGet, "/api/sweets/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")
	if err := h.Get(c); !errors.Is(err, domain.ErrSweetNotFound) {
		t.Fatalf("expected ErrSweetNotFound, got %v", err)
	}
}

func TestSweetHandler_Create_Success(t *testing.T) {
	stub := &stubInventoryService{
		createFn: func(ctx context.Context, claims ports.TokenClaims, in ports.CreateSweetInput) (*domain.Sweet, error) {
			if claims.Role != domain.RoleAdmin {
				t.Fatalf("claims not forwarded: %+v", claims)
			}
			if in.Name != "Fudge" || in.Price != 4.5 || in.Quantity != 10 {
				t.Fatalf("input not forwarded: %+v", in)
			}
			return &domain.Sweet{ID: "sweet_1", Name: in.Name, Category: in.Category, Price: in.Price, Quantity: in.Quantity}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodPost, "/api/sweets", `{"name":"Fudge","category":"chocolate","price":4.5,"quantity":10}`)
	withClaims(c, domain.RoleAdmin)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSweetHandler_Create_RejectsNonPositivePrice(t *testing.T) {
	stub := &stubInventoryService{
		createFn: func(ctx context.Context, claims ports.TokenClaims, in ports.CreateSweetInput) (*domain.Sweet, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets", `{"name":"Fudge","category":"chocolate","price":0,"quantity":1}`)
	withClaims(c, domain.RoleAdmin)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestSweetHandler_Create_MissingClaims(t *testing.T) {
	h := NewSweetHandler(&stubInventoryService{})

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets", `{"name":"Fudge","category":"chocolate","price":1,"quantity":1}`)
	err := h.Create(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestSweetHandler_Update_PartialPatch(t *testing.T) {
	stub := &stubInventoryService{
		updateFn: func(ctx context.Context, claims ports.TokenClaims, id string, in ports.UpdateSweetInput) (*domain.Sweet, error) {
			if id != "sweet_1" {
				t.Fatalf("unexpected id %q", id)
			}
			if in.Price == nil || *in.Price != 6.0 {
				t.Fatalf("price patch not forwarded: %+v", in)
			}
			if in.Name != nil || in.Category != nil || in.Quantity != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			return &domain.Sweet{ID: id, Name: "Fudge", Price: 6.0}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodPut, "/api/sweets/sweet_1", `{"price":6.0}`)
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleAdmin)
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSweetHandler_Delete_NoContent(t *testing.T) {
	stub := &stubInventoryService{
		deleteFn: func(ctx context.Context, claims ports.TokenClaims, id string) error {
			return nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodDelete, "/api/sweets/sweet_1", "")
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleAdmin)
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("expected empty body, got %q", rec.Body.String())
	}
}

func TestSweetHandler_Delete_ForbiddenPropagates(t *testing.T) {
	stub := &stubInventoryService{
		deleteFn: func(ctx context.Context, claims ports.TokenClaims, id string) error {
			return domain.ErrForbidden
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodDelete, "/api/sweets/sweet_1", "")
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleCustomer)
	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSweetHandler_Purchase_Success(t *testing.T) {
	stub := &stubInventoryService{
		purchaseFn: func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
			if quantity != 3 {
				t.Fatalf("expected quantity 3, got %d", quantity)
			}
			return &domain.Sweet{ID: id, Name: "Fudge", Quantity: 7}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodPost, "/api/sweets/sweet_1/purchase", `{"quantity":3}`)
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleCustomer)
	if err := h.Purchase(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var sweet domain.Sweet
	if err := json.Unmarshal(rec.Body.Bytes(), &sweet); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if sweet.Quantity != 7 {
		t.Fatalf("expected remaining quantity 7, got %d", sweet.Quantity)
	}
}

func TestSweetHandler_Purchase_RejectsZeroQuantity(t *testing.T) {
	stub := &stubInventoryService{
		purchaseFn: func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets/sweet_1/purchase", `{"quantity":0}`)
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleCustomer)
	err := h.Purchase(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestSweetHandler_Purchase_InsufficientStockPropagates(t *testing.T) {
	stub := &stubInventoryService{
		purchaseFn: func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
			return nil, domain.ErrInsufficientStock
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets/sweet_1/purchase", `{"quantity":99}`)
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleCustomer)
	if err := h.Purchase(c); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestSweetHandler_Restock_Success(t *testing.T) {
	stub := &stubInventoryService{
		restockFn: func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
			return &domain.Sweet{ID: id, Name: "Fudge", Quantity: 20}, nil
		},
	}
	h := NewSweetHandler(stub)

	c, rec := newSweetContext(t, http.MethodPost, "/api/sweets/sweet_1/restock", `{"quantity":10}`)
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleAdmin)
	if err := h.Restock(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSweetHandler_Restock_RejectsNegativeQuantity(t *testing.T) {
	stub := &stubInventoryService{
		restockFn: func(ctx context.Context, claims ports.TokenClaims, id string, quantity int) (*domain.Sweet, error) {
			t.Fatalf("service must not be called on invalid payload")
			return nil, nil
		},
	}
	h := NewSweetHandler(stub)

	c, _ := newSweetContext(t, http.MethodPost, "/api/sweets/sweet_1/restock", `{"quantity":-5}`)
	c.SetParamNames("id")
	c.SetParamValues("sweet_1")
	withClaims(c, domain.RoleAdmin)
	err := h.Restock(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

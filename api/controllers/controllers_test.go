package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havenfurnitures/storefront-api/api/middleware"
	"github.com/havenfurnitures/storefront-api/internal/auth"
	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/internal/interests"
	"github.com/havenfurnitures/storefront-api/internal/media"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/logger"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
)

type envelope struct {
	Success    bool              `json:"success"`
	Data       json.RawMessage   `json:"data"`
	Message    string            `json:"message"`
	Pagination *pagination.Meta  `json:"pagination"`
	Code       string            `json:"code"`
	Errors     map[string]string `json:"errors"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func serve(h http.HandlerFunc, req *http.Request, params map[string]string) *httptest.ResponseRecorder {
	if len(params) > 0 {
		rc := chi.NewRouteContext()
		for k, v := range params {
			rc.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type stubCatalog struct {
	listParams catalog.ListParams
	created    catalog.CreateInput
	updated    catalog.UpdateInput
	updatedID  string
	deletedID  string
	err        error
}

func (s *stubCatalog) List(_ context.Context, params catalog.ListParams) (*catalog.ListResult, error) {
	s.listParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.ListResult{
		Products:   []catalog.ProductDTO{{ID: uuid.New(), Name: "Oak Table", Price: 500}},
		Pagination: pagination.NewMeta(1, 50, 1),
	}, nil
}

func (s *stubCatalog) Get(_ context.Context, id string) (*catalog.ProductDTO, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.ProductDTO{ID: uuid.MustParse(id), Name: "Oak Table"}, nil
}

func (s *stubCatalog) Create(_ context.Context, input catalog.CreateInput) (*catalog.ProductDTO, error) {
	s.created = input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.ProductDTO{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubCatalog) Update(_ context.Context, id string, input catalog.UpdateInput) (*catalog.ProductDTO, error) {
	s.updatedID, s.updated = id, input
	if s.err != nil {
		return nil, s.err
	}
	return &catalog.ProductDTO{ID: uuid.MustParse(id)}, nil
}

func (s *stubCatalog) Delete(_ context.Context, id string) error {
	s.deletedID = id
	return s.err
}

func (s *stubCatalog) FindSummaries(context.Context, []uuid.UUID) (map[uuid.UUID]catalog.Summary, error) {
	return nil, nil
}

func TestListProductsPassesFilters(t *testing.T) {
	svc := &stubCatalog{}
	req := httptest.NewRequest(http.MethodGet, "/api/products?category=beds&search=oak&page=2&limit=10", nil)
	rec := serve(ListProducts(svc, logger.Nop()), req, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, catalog.ListParams{Category: "beds", Search: "oak", Page: 2, Limit: 10}, svc.listParams)

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, int64(1), env.Pagination.Total)
}

func TestListProductsRejectsBadPaging(t *testing.T) {
	svc := &stubCatalog{}
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=0&limit=x", nil)
	rec := serve(ListProducts(svc, nil), req, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Contains(t, env.Errors, "page")
	assert.Contains(t, env.Errors, "limit")
}

func TestListProductsStoreFailure(t *testing.T) {
	svc := &stubCatalog{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("down"), "db: list products")}
	rec := serve(ListProducts(svc, nil), httptest.NewRequest(http.MethodGet, "/api/products", nil), nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Success)
}

func TestGetProductErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{pkgerrors.New(pkgerrors.CodeInvalidIdentifier, "Invalid product ID"), http.StatusBadRequest},
		{pkgerrors.New(pkgerrors.CodeNotFound, "Product not found"), http.StatusNotFound},
	}
	for _, tc := range cases {
		svc := &stubCatalog{err: tc.err}
		rec := serve(GetProduct(svc, nil), httptest.NewRequest(http.MethodGet, "/api/products/x", nil), map[string]string{"id": "x"})
		assert.Equal(t, tc.status, rec.Code)
		assert.Equal(t, pkgerrors.As(tc.err).Message(), decodeEnvelope(t, rec).Message)
	}
}

func TestCreateProductMapsBody(t *testing.T) {
	svc := &stubCatalog{}
	body := `{"name":"Oak Table","description":"Solid oak dining table","price":"499.90","category":"dining-sets","imageUrl":"/a.png","inStock":false}`
	rec := serve(CreateProduct(svc, nil), httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body)), nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Product created successfully", env.Message)

	assert.Equal(t, "Oak Table", svc.created.Name)
	assert.True(t, svc.created.Price.Set)
	assert.True(t, svc.created.Price.Value.Equal(decimal.RequireFromString("499.9")))
	require.NotNil(t, svc.created.InStock)
	assert.False(t, *svc.created.InStock)
	assert.Nil(t, svc.created.Featured)
}

func TestCreateProductRejectsMalformedJSON(t *testing.T) {
	svc := &stubCatalog{}
	rec := serve(CreateProduct(svc, nil), httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(`{"name":`)), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.created.Name)
}

func TestUpdateProductPartialBody(t *testing.T) {
	svc := &stubCatalog{}
	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPut, "/api/products/"+id, strings.NewReader(`{"featured":true}`))
	rec := serve(UpdateProduct(svc, nil), req, map[string]string{"id": id})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product updated successfully", decodeEnvelope(t, rec).Message)
	assert.Equal(t, id, svc.updatedID)
	assert.Nil(t, svc.updated.Name)
	assert.False(t, svc.updated.Price.Set)
	require.NotNil(t, svc.updated.Featured)
	assert.True(t, *svc.updated.Featured)
}

func TestDeleteProduct(t *testing.T) {
	svc := &stubCatalog{}
	id := uuid.NewString()
	rec := serve(DeleteProduct(svc, nil), httptest.NewRequest(http.MethodDelete, "/api/products/"+id, nil), map[string]string{"id": id})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Product deleted successfully", decodeEnvelope(t, rec).Message)
	assert.Equal(t, id, svc.deletedID)
}

type stubInterests struct {
	submitted  interests.SubmitInput
	listParams interests.ListParams
	err        error
}

func (s *stubInterests) Submit(_ context.Context, input interests.SubmitInput) (*interests.InterestDTO, error) {
	s.submitted = input
	if s.err != nil {
		return nil, s.err
	}
	return &interests.InterestDTO{ID: uuid.New(), Name: input.Name, Status: enums.InterestStatusNew}, nil
}

func (s *stubInterests) List(_ context.Context, params interests.ListParams) (*interests.ListResult, error) {
	s.listParams = params
	if s.err != nil {
		return nil, s.err
	}
	return &interests.ListResult{Interests: []interests.InterestDTO{}, Pagination: pagination.NewMeta(1, 50, 0)}, nil
}

func TestSubmitInterest(t *testing.T) {
	svc := &stubInterests{}
	productID := uuid.NewString()
	body := `{"name":"Ada","email":"ada@example.com","phone":"+2348012345678","productId":"` + productID + `"}`
	rec := serve(SubmitInterest(svc, nil), httptest.NewRequest(http.MethodPost, "/api/interests", strings.NewReader(body)), nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "Interest submitted successfully", env.Message)
	assert.Equal(t, productID, svc.submitted.ProductID)
	assert.Equal(t, "+2348012345678", svc.submitted.Phone)
}

func TestSubmitInterestValidationEnvelope(t *testing.T) {
	svc := &stubInterests{err: pkgerrors.Validation("invalid interest fields", map[string]string{"email": "must be a valid email"})}
	rec := serve(SubmitInterest(svc, nil), httptest.NewRequest(http.MethodPost, "/api/interests", strings.NewReader(`{}`)), nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", env.Code)
	assert.Equal(t, "must be a valid email", env.Errors["email"])
}

func TestListInterestsPassesStatus(t *testing.T) {
	svc := &stubInterests{}
	rec := serve(ListInterests(svc, nil), httptest.NewRequest(http.MethodGet, "/api/interests?status=contacted&limit=5", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, interests.ListParams{Limit: 5, Status: "contacted"}, svc.listParams)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}

type stubNewsletter struct {
	email string
	err   error
}

func (s *stubNewsletter) Subscribe(_ context.Context, email string) error {
	s.email = email
	return s.err
}

func TestSubscribe(t *testing.T) {
	svc := &stubNewsletter{}
	rec := serve(Subscribe(svc, nil), httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{"email":"ada@example.com"}`)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Subscription successful", decodeEnvelope(t, rec).Message)
	assert.Equal(t, "ada@example.com", svc.email)

	svc.err = pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	rec = serve(Subscribe(svc, nil), httptest.NewRequest(http.MethodPost, "/api/subscribe", strings.NewReader(`{}`)), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email is required", decodeEnvelope(t, rec).Message)
}

type stubMedia struct {
	uploaded []byte
	gotFile  bool
	deleted  string
	err      error
}

func (s *stubMedia) UploadImage(_ context.Context, file io.Reader) (*media.UploadResult, error) {
	if file == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No file provided")
	}
	s.gotFile = true
	s.uploaded, _ = io.ReadAll(file)
	return &media.UploadResult{URL: "https://cdn.test/haven-furnitures/a.png", PublicID: "haven-furnitures/a.png"}, nil
}

func (s *stubMedia) DeleteImage(_ context.Context, publicID string) error {
	s.deleted = publicID
	return s.err
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "chair.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload/image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadImage(t *testing.T) {
	svc := &stubMedia{}
	rec := serve(UploadImage(svc, nil), multipartRequest(t, "file", []byte("image-bytes")), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []byte("image-bytes"), svc.uploaded)
	assert.JSONEq(t, `{"url":"https://cdn.test/haven-furnitures/a.png","publicId":"haven-furnitures/a.png"}`, string(decodeEnvelope(t, rec).Data))
}

func TestUploadImageWithoutFile(t *testing.T) {
	for name, req := range map[string]*http.Request{
		"wrong field":   multipartRequest(t, "image", []byte("x")),
		"not multipart": httptest.NewRequest(http.MethodPost, "/api/upload/image", strings.NewReader(`{}`)),
	} {
		svc := &stubMedia{}
		rec := serve(UploadImage(svc, nil), req, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		assert.Equal(t, "No file provided", decodeEnvelope(t, rec).Message, name)
		assert.False(t, svc.gotFile, name)
	}
}

func TestDeleteImage(t *testing.T) {
	svc := &stubMedia{}
	rec := serve(DeleteImage(svc, nil), httptest.NewRequest(http.MethodDelete, "/api/upload/image", strings.NewReader(`{"public_id":"haven-furnitures/a.png"}`)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Image deleted successfully", decodeEnvelope(t, rec).Message)
	assert.Equal(t, "haven-furnitures/a.png", svc.deleted)

	svc = &stubMedia{}
	rec = serve(DeleteImage(svc, nil), httptest.NewRequest(http.MethodDelete, "/api/upload/image", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No image to delete", decodeEnvelope(t, rec).Message)
	assert.Empty(t, svc.deleted)

	svc = &stubMedia{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("gcs 500"), "Delete failed")}
	rec = serve(DeleteImage(svc, nil), httptest.NewRequest(http.MethodDelete, "/api/upload/image?publicId=haven-furnitures/b.png", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "haven-furnitures/b.png", svc.deleted)
}

type stubAuth struct {
	loginReq  auth.LoginRequest
	revoked   string
	err       error
	sessionOK bool
}

func (s *stubAuth) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.loginReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &auth.LoginResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresAt: time.Now().Add(time.Hour), Admin: auth.AdminDTO{Email: req.Email, Role: enums.RoleAdmin}}, nil
}

func (s *stubAuth) Logout(_ context.Context, accessID string) error {
	s.revoked = accessID
	return s.err
}

func (s *stubAuth) Session(_ context.Context, accessID string) (*auth.AdminDTO, error) {
	if !s.sessionOK {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	}
	return &auth.AdminDTO{Email: "owner@haven.test", Role: enums.RoleAdmin}, nil
}

func TestAuthLogin(t *testing.T) {
	svc := &stubAuth{}
	rec := serve(AuthLogin(svc, nil), httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"owner@haven.test","password":"pw"}`)), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "owner@haven.test", svc.loginReq.Email)

	var data auth.LoginResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &data))
	assert.Equal(t, "tok", data.AccessToken)

	svc = &stubAuth{}
	rec = serve(AuthLogin(svc, nil), httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"nope"}`)), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.loginReq.Email, "service must not run on invalid input")
}

func TestAuthLogoutAndSession(t *testing.T) {
	svc := &stubAuth{}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req = req.WithContext(middleware.WithAdmin(req.Context(), "owner@haven.test", "admin", "jti-1"))
	rec := serve(AuthLogout(svc, nil), req, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "jti-1", svc.revoked)

	rec = serve(AuthSession(svc, nil), httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	svc.sessionOK = true
	rec = serve(AuthSession(svc, nil), httptest.NewRequest(http.MethodGet, "/api/auth/session", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	rec := serve(Health(cfg, nil, map[string]Pinger{"database": up, "redis": up}), httptest.NewRequest(http.MethodGet, "/api/health", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	var report struct {
		Status  string            `json:"status"`
		Message string            `json:"message"`
		Checks  map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "OK", report.Status)
	assert.Equal(t, "Haven Furnitures API is running", report.Message)
	assert.Equal(t, map[string]string{"database": "up", "redis": "up"}, report.Checks)

	rec = serve(Health(cfg, nil, map[string]Pinger{"database": up, "redis": down}), httptest.NewRequest(http.MethodGet, "/api/health", nil), nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	env = decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, "DEGRADED", report.Status)
	assert.Equal(t, "down", report.Checks["redis"])
}

func TestFallbacks(t *testing.T) {
	rec := serve(NotFound(nil), httptest.NewRequest(http.MethodGet, "/api/nope", nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "API endpoint not found", decodeEnvelope(t, rec).Message)

	rec = serve(MethodNotAllowed(nil), httptest.NewRequest(http.MethodPatch, "/api/products", nil), nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

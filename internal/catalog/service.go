package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/validate"
)

const (
	msgInvalidID     = "Invalid product ID"
	msgNotFound      = "Product not found"
	msgInvalidFields = "invalid product fields"
)

// Service exposes catalog browse and admin management operations.
type Service interface {
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, id string) (*ProductDTO, error)
	Create(ctx context.Context, input CreateInput) (*ProductDTO, error)
	Update(ctx context.Context, id string, input UpdateInput) (*ProductDTO, error)
	Delete(ctx context.Context, id string) error
	FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Summary, error)
}

// CreateInput holds the admin payload for a new product.
type CreateInput struct {
	Name        string
	Description string
	Price       PriceInput
	Category    string
	ImageURL    string
	InStock     *bool
	Featured    *bool
}

// UpdateInput holds optional replacements; nil (or an unset price) leaves a field unchanged.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       PriceInput
	Category    *string
	ImageURL    *string
	InStock     *bool
	Featured    *bool
}

func (u UpdateInput) empty() bool {
	return u.Name == nil && u.Description == nil && !u.Price.Set && u.Category == nil &&
		u.ImageURL == nil && u.InStock == nil && u.Featured == nil
}

type createFields struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required,min=10,max=1000"`
	Category    string `json:"category" validate:"required,category"`
	ImageURL    string `json:"imageUrl" validate:"required,imageref"`
}

type updateFields struct {
	Name        *string `json:"name" validate:"omitnil,notblank,max=100"`
	Description *string `json:"description" validate:"omitnil,notblank,min=10,max=1000"`
	Category    *string `json:"category" validate:"omitnil,notblank,category"`
	ImageURL    *string `json:"imageUrl" validate:"omitnil,notblank,imageref"`
}

type service struct {
	store        Store
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// NewService constructs the catalog service over the given store.
func NewService(store Store, cfg config.CatalogConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	return &service{
		store:        store,
		defaultLimit: cfg.DefaultPageSize,
		maxLimit:     cfg.MaxPageSize,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// List returns one page of products matching the category and search filters, newest first.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	q, err := BuildListQuery(params, s.defaultLimit, s.maxLimit)
	if err != nil {
		return nil, err
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	products := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		products = append(products, *NewProductDTO(&rows[i]))
	}
	return &ListResult{Products: products, Pagination: q.Page.Meta(total)}, nil
}

func (s *service) Get(ctx context.Context, id string) (*ProductDTO, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// Create validates every required field before anything is written.
func (s *service) Create(ctx context.Context, input CreateInput) (*ProductDTO, error) {
	fields := createFields{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Category:    enums.NormalizeCategory(input.Category),
		ImageURL:    strings.TrimSpace(input.ImageURL),
	}
	failures := validate.Collect(fields)
	if msg := input.Price.check(); msg != "" {
		failures.Add("price", msg)
	}
	if err := failures.Err(msgInvalidFields); err != nil {
		return nil, err
	}

	now := s.now()
	product := &models.Product{
		ID:          uuid.New(),
		Name:        fields.Name,
		Description: fields.Description,
		Price:       input.Price.Value.Round(2),
		Category:    enums.ProductCategory(fields.Category),
		ImageURL:    fields.ImageURL,
		InStock:     boolOr(input.InStock, true),
		Featured:    boolOr(input.Featured, false),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(product), nil
}

// Update applies the provided fields; the id and fields are checked before the store is read.
func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*ProductDTO, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	if input.empty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	fields := updateFields{
		Name:        trimPtr(input.Name),
		Description: trimPtr(input.Description),
		ImageURL:    trimPtr(input.ImageURL),
	}
	if input.Category != nil {
		normalized := enums.NormalizeCategory(*input.Category)
		fields.Category = &normalized
	}
	failures := validate.Collect(fields)
	if input.Price.Set {
		if msg := input.Price.check(); msg != "" {
			failures.Add("price", msg)
		}
	}
	if err := failures.Err(msgInvalidFields); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}

	if fields.Name != nil {
		product.Name = *fields.Name
	}
	if fields.Description != nil {
		product.Description = *fields.Description
	}
	if fields.Category != nil {
		product.Category = enums.ProductCategory(*fields.Category)
	}
	if fields.ImageURL != nil {
		product.ImageURL = *fields.ImageURL
	}
	if input.Price.Set {
		product.Price = input.Price.Value.Round(2)
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.Featured != nil {
		product.Featured = *input.Featured
	}
	product.UpdatedAt = s.now()

	if err := s.store.Update(ctx, product); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(product), nil
}

// Delete removes the product permanently. Interests that reference it are kept.
func (s *service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, productID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// FindSummaries loads summaries for the ids that still exist; missing ids are absent from the map.
func (s *service) FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Summary, error) {
	out := make(map[uuid.UUID]Summary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.store.FindByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product summaries")
	}
	for _, row := range rows {
		out[row.ID] = NewSummary(row)
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

// parseID converts a path identifier, reporting INVALID_IDENTIFIER when malformed.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeInvalidIdentifier, msgInvalidID)
	}
	return id, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func trimPtr(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

package interests

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/havenfurnitures/storefront-api/internal/catalog"
	"github.com/havenfurnitures/storefront-api/pkg/config"
	"github.com/havenfurnitures/storefront-api/pkg/db/models"
	"github.com/havenfurnitures/storefront-api/pkg/enums"
	pkgerrors "github.com/havenfurnitures/storefront-api/pkg/errors"
	"github.com/havenfurnitures/storefront-api/pkg/pagination"
	"github.com/havenfurnitures/storefront-api/pkg/validate"
)

const msgInvalidFields = "invalid interest fields"

// Service records customer interest and serves the admin list.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*InterestDTO, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
}

// Catalog is the slice of the catalog service interests depend on.
type Catalog interface {
	Get(ctx context.Context, id string) (*catalog.ProductDTO, error)
	FindSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Summary, error)
}

// SubmitInput is the customer form payload.
type SubmitInput struct {
	Name      string `json:"name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,phone"`
	Message   string `json:"message" validate:"max=500"`
	ProductID string `json:"productId" validate:"required,uuid"`
}

// ListParams configures the admin interest list.
type ListParams struct {
	Page   int
	Limit  int
	Status string
}

type service struct {
	store        Store
	catalog      Catalog
	notifier     Notifier
	defaultLimit int
	maxLimit     int
	now          func() time.Time
}

// NewService wires interest dependencies. A nil notifier disables notifications.
func NewService(store Store, cat Catalog, notifier Notifier, cfg config.CatalogConfig) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("interests store required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	return &service{
		store:        store,
		catalog:      cat,
		notifier:     notifier,
		defaultLimit: cfg.DefaultPageSize,
		maxLimit:     cfg.MaxPageSize,
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// Submit validates the form, confirms the product exists, stores the interest
// and then hands it to the notifier.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*InterestDTO, error) {
	input = SubmitInput{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		Message:   strings.TrimSpace(input.Message),
		ProductID: strings.TrimSpace(input.ProductID),
	}
	if err := validate.Collect(input).Err(msgInvalidFields); err != nil {
		return nil, err
	}

	product, err := s.catalog.Get(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	interest := &models.Interest{
		ID:          uuid.New(),
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Message:     input.Message,
		ProductName: product.Name,
		ProductID:   product.ID,
		Status:      enums.InterestStatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Create(ctx, interest); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert interest")
	}

	if s.notifier != nil {
		s.notifier.Notify(ctx, interest, product)
	}

	summary := catalog.Summary{ID: product.ID, Name: product.Name, Price: product.Price, Category: product.Category}
	return newInterestDTO(interest, &summary), nil
}

// List returns interests newest first with the referenced product attached when it still exists.
func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	fields := validate.FieldErrors{}
	page, err := pagination.NewParams(params.Page, params.Limit, s.defaultLimit, s.maxLimit)
	if err != nil {
		if params.Page < 0 {
			fields.Add("page", "must be a positive integer")
		}
		if params.Limit < 0 {
			fields.Add("limit", "must be a positive integer")
		}
	}
	q := ListQuery{Page: page}
	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, parseErr := enums.ParseInterestStatus(raw)
		if parseErr != nil {
			fields.Add("status", "must be one of: new, contacted, closed")
		}
		q.Status = status
	}
	if err := fields.Err("invalid list parameters"); err != nil {
		return nil, err
	}

	rows, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list interests")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	summaries, err := s.catalog.FindSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]InterestDTO, 0, len(rows))
	for i := range rows {
		var product *catalog.Summary
		if summary, ok := summaries[rows[i].ProductID]; ok {
			product = &summary
		}
		out = append(out, *newInterestDTO(&rows[i], product))
	}
	return &ListResult{Interests: out, Pagination: page.Meta(total)}, nil
}

package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/havenfurnitures/storefront-api/pkg/db/models"
)

// updatableColumns are written on every update so explicit false/zero values persist.
var updatableColumns = []string{
	"name", "description", "price", "category", "image_url", "in_stock", "featured", "updated_at",
	"name_folded", "description_folded",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository is the relational Store backed by GORM (postgres or sqlite).
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a repository to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List counts every match, then loads the requested window newest first.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Product
	if total == 0 {
		return rows, 0, nil
	}
	err := r.filtered(ctx, q).
		Order("created_at DESC").
		Order("id DESC").
		Offset(q.Offset()).
		Limit(q.Limit()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) filtered(ctx context.Context, q ListQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Product{})
	if q.HasCategory() {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.HasSearch() {
		pattern := "%" + likeEscaper.Replace(q.Search) + "%"
		clauses := make([]string, 0, len(q.Fields))
		args := make([]any, 0, len(q.Fields))
		for _, f := range q.Fields {
			clauses = append(clauses, columnFor(f)+` LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	return tx
}

// columnFor maps a search field to a column already folded to lower case.
// SQL LOWER only folds ASCII on sqlite, so name and description are folded in
// Go on write. Categories are stored normalized.
func columnFor(f SearchField) string {
	switch f {
	case FieldDescription:
		return "description_folded"
	case FieldCategory:
		return "category"
	default:
		return "name_folded"
	}
}

func fold(p *models.Product) {
	p.NameFolded = strings.ToLower(p.Name)
	p.DescriptionFolded = strings.ToLower(p.Description)
}

// FindByID loads one product or returns ErrNotFound.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs loads the products that exist among ids.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var rows []models.Product
	if len(ids) == 0 {
		return rows, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	fold(product)
	return r.db.WithContext(ctx).Create(product).Error
}

// Update writes every mutable column; ErrNotFound when the row vanished.
func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	fold(product)
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", product.ID).
		Select(updatableColumns).
		Updates(map[string]any{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
			"image_url":   product.ImageURL,
			"in_stock":    product.InStock,
			"featured":    product.Featured,
			"updated_at":  product.UpdatedAt,

			"name_folded":        product.NameFolded,
			"description_folded": product.DescriptionFolded,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard-deletes one product; ErrNotFound when absent.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll empties the catalog; used by the seed tool.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

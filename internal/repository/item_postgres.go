package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rewear/exchange-service/internal/model"
)

// postgresItemRepository handles database operations for items
type postgresItemRepository struct {
	q      sqlx.ExtContext
	logger *zap.Logger
}

// Create inserts a new item with its images
func (r *postgresItemRepository) Create(ctx context.Context, item *model.Item) error {
	query := `
		INSERT INTO items (id, title, description, category, type, size, condition,
			tags, status, points, location, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.q.ExecContext(ctx, query,
		item.ID, item.Title, item.Description, item.Category, item.Type,
		item.Size, item.Condition, pq.Array(item.Tags), item.Status,
		item.Points, item.Location, item.UserID, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create item", zap.Error(err))
		return err
	}

	for _, img := range item.Images {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO item_images (id, item_id, image_url, public_id, is_primary, position)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			img.ID, item.ID, img.ImageURL, img.PublicID, img.IsPrimary, img.Position,
		)
		if err != nil {
			r.logger.Error("Failed to create item image", zap.String("item_id", item.ID), zap.Error(err))
			return err
		}
	}
	return nil
}

// GetByID retrieves an item and its images, returning nil when absent
func (r *postgresItemRepository) GetByID(ctx context.Context, id string) (*model.Item, error) {
	query := `
		SELECT id, title, description, category, type, size, condition, status,
			points, location, user_id, created_at, updated_at
		FROM items WHERE id = $1`

	var item model.Item
	err := sqlx.GetContext(ctx, r.q, &item, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get item", zap.String("item_id", id), zap.Error(err))
		return nil, err
	}

	if err := r.loadTags(ctx, &item); err != nil {
		return nil, err
	}
	if err := r.loadImages(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *postgresItemRepository) loadTags(ctx context.Context, item *model.Item) error {
	var tags pq.StringArray
	row := r.q.QueryRowxContext(ctx, `SELECT tags FROM items WHERE id = $1`, item.ID)
	if err := row.Scan(&tags); err != nil {
		r.logger.Error("Failed to load item tags", zap.String("item_id", item.ID), zap.Error(err))
		return err
	}
	item.Tags = []string(tags)
	return nil
}

func (r *postgresItemRepository) loadImages(ctx context.Context, item *model.Item) error {
	query := `
		SELECT id, item_id, image_url, public_id, is_primary, position
		FROM item_images WHERE item_id = $1 ORDER BY position ASC`

	var images []model.ItemImage
	if err := sqlx.SelectContext(ctx, r.q, &images, query, item.ID); err != nil {
		r.logger.Error("Failed to load item images", zap.String("item_id", item.ID), zap.Error(err))
		return err
	}
	item.Images = images
	return nil
}

// Search retrieves items matching the filter with pagination, returning the
// page plus the unpaginated total.
func (r *postgresItemRepository) Search(ctx context.Context, filter model.ItemFilter) ([]model.Item, int, error) {
	var conditions []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		p := arg("%" + filter.Query + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE %s OR description ILIKE %s OR EXISTS (SELECT 1 FROM unnest(tags) t WHERE t ILIKE %s))", p, p, p))
	}
	if len(filter.Categories) > 0 {
		conditions = append(conditions, fmt.Sprintf("category = ANY(%s)", arg(pq.Array(filter.Categories))))
	}
	if len(filter.Types) > 0 {
		conditions = append(conditions, fmt.Sprintf("type = ANY(%s)", arg(pq.Array(filter.Types))))
	}
	if len(filter.Sizes) > 0 {
		conditions = append(conditions, fmt.Sprintf("size = ANY(%s)", arg(pq.Array(filter.Sizes))))
	}
	if len(filter.Conditions) > 0 {
		conditions = append(conditions, fmt.Sprintf("condition = ANY(%s)", arg(pq.Array(filter.Conditions))))
	}
	if filter.MinPoints != nil {
		conditions = append(conditions, fmt.Sprintf("points >= %s", arg(*filter.MinPoints)))
	}
	if filter.MaxPoints != nil {
		conditions = append(conditions, fmt.Sprintf("points <= %s", arg(*filter.MaxPoints)))
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("location ILIKE %s", arg("%"+filter.Location+"%")))
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = %s", arg(*filter.Status)))
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = %s", arg(filter.UserID)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, "SELECT COUNT(*) FROM items"+where, args...); err != nil {
		r.logger.Error("Failed to count items", zap.Error(err))
		return nil, 0, err
	}

	// Sort column and direction are validated against a whitelist to keep
	// the interpolation safe.
	sortBy := "created_at"
	switch filter.SortBy {
	case "points", "title", "created_at":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 12
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, category, type, size, condition, status,
			points, location, user_id, created_at, updated_at
		FROM items%s ORDER BY %s %s LIMIT %s OFFSET %s`,
		where, sortBy, sortOrder, arg(limit), arg((page-1)*limit))

	var items []model.Item
	if err := sqlx.SelectContext(ctx, r.q, &items, query, args...); err != nil {
		r.logger.Error("Failed to search items", zap.Error(err))
		return nil, 0, err
	}

	for i := range items {
		if err := r.loadTags(ctx, &items[i]); err != nil {
			return nil, 0, err
		}
		if err := r.loadImages(ctx, &items[i]); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

// Update persists listing changes
func (r *postgresItemRepository) Update(ctx context.Context, item *model.Item) error {
	query := `
		UPDATE items
		SET title = $1, description = $2, category = $3, type = $4, size = $5,
			condition = $6, tags = $7, points = $8, location = $9, updated_at = NOW()
		WHERE id = $10`

	_, err := r.q.ExecContext(ctx, query,
		item.Title, item.Description, item.Category, item.Type, item.Size,
		item.Condition, pq.Array(item.Tags), item.Points, item.Location, item.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update item", zap.String("item_id", item.ID), zap.Error(err))
		return err
	}
	return nil
}

// UpdateStatus performs a compare-and-swap on the item status
func (r *postgresItemRepository) UpdateStatus(ctx context.Context, id string, from, to model.ItemStatus) (bool, error) {
	query := `UPDATE items SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	res, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		r.logger.Error("Failed to update item status", zap.String("item_id", id), zap.Error(err))
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Delete removes an item, reporting whether it existed
func (r *postgresItemRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete item", zap.String("item_id", id), zap.Error(err))
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// Count returns the total number of items
func (r *postgresItemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM items`); err != nil {
		r.logger.Error("Failed to count items", zap.Error(err))
		return 0, err
	}
	return count, nil
}

// CountByStatus returns the number of items in the given status
func (r *postgresItemRepository) CountByStatus(ctx context.Context, status model.ItemStatus) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM items WHERE status = $1`, status); err != nil {
		r.logger.Error("Failed to count items by status", zap.Error(err))
		return 0, err
	}
	return count, nil
}

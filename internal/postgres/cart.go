package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"design-commerce-backend/internal/models"
)

const cartLineColumns = `id, user_id, product_id, quantity, project_id, area,
	unit_price_snapshot, title_snapshot, image_snapshot, created_at, updated_at`

func scanCartLine(row interface{ Scan(...interface{}) error }) (*models.CartLine, error) {
	var line models.CartLine
	var projectID uuid.NullUUID
	err := row.Scan(
		&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &projectID, &line.Area,
		&line.UnitPriceSnapshot, &line.TitleSnapshot, &line.ImageSnapshot,
		&line.CreatedAt, &line.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	line.ProjectID = projectID.UUID
	return &line, nil
}

func (d *DatabaseClient) InsertLine(ctx context.Context, line *models.CartLine) error {
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO cart_lines (user_id, product_id, quantity, project_id, area,
			unit_price_snapshot, title_snapshot, image_snapshot)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, line.UserID, line.ProductID, line.Quantity, nullUUID(line.ProjectID), line.Area,
		line.UnitPriceSnapshot, line.TitleSnapshot, line.ImageSnapshot,
	).Scan(&line.ID, &line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart line: %w", err)
	}
	return nil
}

func (d *DatabaseClient) GetLine(ctx context.Context, userID, lineID uuid.UUID) (*models.CartLine, error) {
	line, err := scanCartLine(d.db.QueryRowContext(ctx, `
		SELECT `+cartLineColumns+`
		FROM cart_lines
		WHERE id = $1 AND user_id = $2
	`, lineID, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	return line, nil
}

func (d *DatabaseClient) GetLineByKey(ctx context.Context, userID uuid.UUID, key models.CartLineKey) (*models.CartLine, error) {
	line, err := scanCartLine(d.db.QueryRowContext(ctx, `
		SELECT `+cartLineColumns+`
		FROM cart_lines
		WHERE user_id = $1 AND product_id = $2
		  AND COALESCE(project_id, '00000000-0000-0000-0000-000000000000'::uuid) = $3
		  AND area = $4
	`, userID, key.ProductID, key.ProjectID, key.Area))
	if err != nil {
		return nil, fmt.Errorf("failed to get cart line by key: %w", err)
	}
	return line, nil
}

func (d *DatabaseClient) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	_, err := d.db.ExecContext(ctx, `
		UPDATE cart_lines
		SET quantity = $1, updated_at = NOW()
		WHERE id = $2
	`, quantity, lineID)
	if err != nil {
		return fmt.Errorf("failed to update cart line quantity: %w", err)
	}
	return nil
}

func (d *DatabaseClient) DeleteLine(ctx context.Context, userID, lineID uuid.UUID) error {
	_, err := d.db.ExecContext(ctx, `
		DELETE FROM cart_lines
		WHERE id = $1 AND user_id = $2
	`, lineID, userID)
	return err
}

func (d *DatabaseClient) DeleteLineByKey(ctx context.Context, userID uuid.UUID, key models.CartLineKey) error {
	_, err := d.db.ExecContext(ctx, `
		DELETE FROM cart_lines
		WHERE user_id = $1 AND product_id = $2
		  AND COALESCE(project_id, '00000000-0000-0000-0000-000000000000'::uuid) = $3
		  AND area = $4
	`, userID, key.ProductID, key.ProjectID, key.Area)
	return err
}

func (d *DatabaseClient) ListLines(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT `+cartLineColumns+`
		FROM cart_lines
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}

	return lines, rows.Err()
}

func (d *DatabaseClient) ListLinesByIDs(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID) ([]models.CartLine, error) {
	ids := make([]string, len(lineIDs))
	for i, id := range lineIDs {
		ids[i] = id.String()
	}

	rows, err := d.db.QueryContext(ctx, `
		SELECT `+cartLineColumns+`
		FROM cart_lines
		WHERE user_id = $1 AND id = ANY($2::uuid[])
		ORDER BY created_at ASC
	`, userID, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list cart lines by ids: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, *line)
	}

	return lines, rows.Err()
}

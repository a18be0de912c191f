package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pagedraft/internal/models"
)

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	if activity.ActivityID == "" {
		activity.ActivityID = uuid.New().String()
	}

	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO activities (activity_id, user_id, type, description, link, created_at)
		VALUES (:activity_id, :user_id, :type, :description, :link, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, activity)
	if err != nil {
		return fmt.Errorf("ошибка при создании записи активности: %w", err)
	}

	return nil
}

func (r *activityRepository) GetByUserID(ctx context.Context, userID string, limit int) ([]models.Activity, error) {
	if limit < 1 {
		limit = 15
	}

	query := `
		SELECT * FROM activities
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	var activities []models.Activity
	err := r.db.SelectContext(ctx, &activities, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении активности: %w", err)
	}

	return activities, nil
}

package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"party_quiz/internal/repository/models"
	"party_quiz/internal/storage"
)

type RoundRepository interface {
	FindByID(ctx context.Context, id string) (*models.Round, error)
	// FindAll 依類別與名稱排序
	FindAll(ctx context.Context) ([]models.Round, error)
	Upsert(ctx context.Context, rounds []models.Round) error
}

type roundRepository struct {
	baseRepository
}

func NewRoundRepository(db *storage.PostgresDB) RoundRepository {
	return &roundRepository{baseRepository{db: db}}
}

func (r *roundRepository) FindByID(ctx context.Context, id string) (*models.Round, error) {
	var round models.Round
	if err := r.withContext(ctx).Where("id = ?", id).First(&round).Error; err != nil {
		return nil, translateError(err)
	}
	return &round, nil
}

func (r *roundRepository) FindAll(ctx context.Context) ([]models.Round, error) {
	var rounds []models.Round
	err := r.withContext(ctx).Order("category ASC").Order("name ASC").Find(&rounds).Error
	return rounds, translateError(err)
}

// Upsert 匯入回合內容，相同 ID 會覆蓋
func (r *roundRepository) Upsert(ctx context.Context, rounds []models.Round) error {
	if len(rounds) == 0 {
		return nil
	}
	err := r.withContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "name", "data"}),
	}).Create(&rounds).Error
	return translateError(err)
}

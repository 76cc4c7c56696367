package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"party_quiz/internal/game"
	"party_quiz/internal/models"
	"party_quiz/internal/repository"
	repomodels "party_quiz/internal/repository/models"
)

// RoundService 提供唯讀的回合內容
type RoundService struct {
	repo repository.RoundRepository
}

func NewRoundService(repo repository.RoundRepository) *RoundService {
	return &RoundService{repo: repo}
}

// Index 依類別分組回合，用於選擇回合
func (s *RoundService) Index(ctx context.Context) (map[models.Category][]models.RoundSummary, error) {
	rounds, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[models.Category][]models.RoundSummary)
	for _, r := range rounds {
		category := models.Category(r.Category)
		index[category] = append(index[category], models.RoundSummary{ID: r.ID, Name: r.Name})
	}
	return index, nil
}

// Get 依 ID 讀取完整的回合定義
func (s *RoundService) Get(ctx context.Context, id string) (*models.Round, error) {
	row, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, game.ErrRoundNotFound
	}
	if err != nil {
		return nil, err
	}
	return convertRound(row), nil
}

// SeedFromFile 匯入 JSON 陣列格式的回合檔案
func (s *RoundService) SeedFromFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read rounds file: %w", err)
	}

	var rounds []models.Round
	if err := json.Unmarshal(data, &rounds); err != nil {
		return 0, fmt.Errorf("failed to parse rounds file: %w", err)
	}

	rows := make([]repomodels.Round, 0, len(rounds))
	for _, r := range rounds {
		if r.ID == "" || !r.Category.Valid() {
			log.Warn().Str("round", r.ID).Str("category", string(r.Category)).Msg("skipping invalid round")
			continue
		}
		payload := datatypes.JSON(r.Data)
		if len(payload) == 0 {
			payload = datatypes.JSON("{}")
		}
		rows = append(rows, repomodels.Round{
			ID:       r.ID,
			Category: string(r.Category),
			Name:     r.Name,
			Data:     payload,
		})
	}

	if err := s.repo.Upsert(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func convertRound(row *repomodels.Round) *models.Round {
	return &models.Round{
		ID:       row.ID,
		Category: models.Category(row.Category),
		Name:     row.Name,
		Data:     json.RawMessage(row.Data),
	}
}

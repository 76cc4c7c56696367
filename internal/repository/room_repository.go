package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"party_quiz/internal/repository/models"
	"party_quiz/internal/storage"
)

// RoomStateRepository 是以版本號做條件更新的房間文件儲存
type RoomStateRepository interface {
	// Create 新增房間文件，代碼已存在時回傳 ErrCodeTaken
	Create(ctx context.Context, code string, state []byte) (*models.RoomState, error)
	// Fetch 讀取房間文件與目前版本
	Fetch(ctx context.Context, code string) (*models.RoomState, error)
	// CompareAndSwap 只有在版本相符時寫入，回傳新版本；版本不符回傳 ErrVersionMismatch
	CompareAndSwap(ctx context.Context, code string, version int64, state []byte) (int64, error)
}

type roomStateRepository struct {
	baseRepository
}

func NewRoomStateRepository(db *storage.PostgresDB) RoomStateRepository {
	return &roomStateRepository{baseRepository{db: db}}
}

func (r *roomStateRepository) Create(ctx context.Context, code string, state []byte) (*models.RoomState, error) {
	row := &models.RoomState{
		Code:    code,
		State:   datatypes.JSON(state),
		Version: 1,
	}
	if err := r.withContext(ctx).Create(row).Error; err != nil {
		return nil, translateError(err)
	}
	return row, nil
}

func (r *roomStateRepository) Fetch(ctx context.Context, code string) (*models.RoomState, error) {
	var row models.RoomState
	if err := r.withContext(ctx).Where("code = ?", code).First(&row).Error; err != nil {
		return nil, translateError(err)
	}
	return &row, nil
}

func (r *roomStateRepository) CompareAndSwap(ctx context.Context, code string, version int64, state []byte) (int64, error) {
	res := r.withContext(ctx).
		Model(&models.RoomState{}).
		Where("code = ? AND version = ?", code, version).
		Updates(map[string]interface{}{
			"state":      datatypes.JSON(state),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return 0, translateError(res.Error)
	}
	if res.RowsAffected == 1 {
		return version + 1, nil
	}

	// 沒有更新到資料列：房間不存在或版本已被其他交易推進
	var count int64
	if err := r.withContext(ctx).Model(&models.RoomState{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	if count == 0 {
		return 0, ErrNotFound
	}
	return 0, ErrVersionMismatch
}

package repository

import "party_quiz/internal/storage"

type Repositories struct {
	RoomState RoomStateRepository
	Round     RoundRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		RoomState: NewRoomStateRepository(db),
		Round:     NewRoundRepository(db),
	}
}

// NewMemoryRepositories 建立不需要資料庫的 repositories（db.driver=memory 與測試使用）
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		RoomState: NewMemoryRoomStateRepository(),
		Round:     NewMemoryRoundRepository(),
	}
}

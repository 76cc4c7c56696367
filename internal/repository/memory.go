package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"party_quiz/internal/repository/models"
)

// MemoryRoomStateRepository 是行程內的房間儲存，條件更新語意與 PostgreSQL 版本相同
type MemoryRoomStateRepository struct {
	rooms map[string]models.RoomState
	mu    sync.RWMutex
}

func NewMemoryRoomStateRepository() *MemoryRoomStateRepository {
	return &MemoryRoomStateRepository{
		rooms: make(map[string]models.RoomState),
	}
}

func (s *MemoryRoomStateRepository) Create(ctx context.Context, code string, state []byte) (*models.RoomState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rooms[code]; exists {
		return nil, ErrCodeTaken
	}
	now := time.Now()
	row := models.RoomState{
		Code:      code,
		State:     append([]byte(nil), state...),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.rooms[code] = row
	return &row, nil
}

func (s *MemoryRoomStateRepository) Fetch(ctx context.Context, code string) (*models.RoomState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, exists := s.rooms[code]
	if !exists {
		return nil, ErrNotFound
	}
	row.State = append([]byte(nil), row.State...)
	return &row, nil
}

func (s *MemoryRoomStateRepository) CompareAndSwap(ctx context.Context, code string, version int64, state []byte) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	row, exists := s.rooms[code]
	if !exists {
		return 0, ErrNotFound
	}
	if row.Version != version {
		return 0, ErrVersionMismatch
	}
	row.State = append([]byte(nil), state...)
	row.Version++
	row.UpdatedAt = time.Now()
	s.rooms[code] = row
	return row.Version, nil
}

// MemoryRoundRepository 是行程內的回合內容
type MemoryRoundRepository struct {
	rounds map[string]models.Round
	mu     sync.RWMutex
}

func NewMemoryRoundRepository() *MemoryRoundRepository {
	return &MemoryRoundRepository{
		rounds: make(map[string]models.Round),
	}
}

func (s *MemoryRoundRepository) FindByID(_ context.Context, id string) (*models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	round, exists := s.rounds[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &round, nil
}

func (s *MemoryRoundRepository) FindAll(_ context.Context) ([]models.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rounds := make([]models.Round, 0, len(s.rounds))
	for _, r := range s.rounds {
		rounds = append(rounds, r)
	}
	sort.Slice(rounds, func(i, j int) bool {
		if rounds[i].Category != rounds[j].Category {
			return rounds[i].Category < rounds[j].Category
		}
		return rounds[i].Name < rounds[j].Name
	})
	return rounds, nil
}

func (s *MemoryRoundRepository) Upsert(_ context.Context, rounds []models.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rounds {
		s.rounds[r.ID] = r
	}
	return nil
}

package game

import (
	"party_quiz/internal/models"
)

// StartRound 由主持人開始新回合，只能從 HUB 或 REVEAL 進入；
// category 為空時沿用回合本身的類別
func StartRound(env Env, room *models.Room, playerID string, category models.Category, round *models.Round) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	if room.Phase != models.PhaseHub && room.Phase != models.PhaseReveal {
		return ErrBadState
	}
	if category != "" && category != round.Category {
		return ErrBadCategory
	}

	state, err := NewGameState(env, round)
	if err != nil {
		return err
	}

	room.Phase = models.PhaseInRound
	room.Locked = false
	room.Activity = []models.ActivityEntry{}
	room.ActiveRound = &models.ActiveRound{
		Category:  round.Category,
		RoundID:   round.ID,
		RoundName: round.Name,
	}
	room.Game = state
	return nil
}

// NewGameState 依回合類別建立全新的遊戲狀態
func NewGameState(env Env, round *models.Round) (*models.GameState, error) {
	state := &models.GameState{Category: round.Category}
	var err error
	switch round.Category {
	case models.CategoryAufzaehlen:
		state.Aufzaehlen, err = newAufzaehlen(round.Data)
	case models.CategoryTrifft:
		state.Trifft, err = newTrifft(round.Data)
	case models.CategorySortieren:
		state.Sortieren, err = newSortieren(env, round.Data)
	case models.CategoryFakten:
		state.Fakten, err = newFakten(env, round.Data)
	case models.CategoryFehler:
		state.Fehler, err = newFehler(round.Data)
	default:
		return nil, ErrBadCategory
	}
	if err != nil {
		return nil, err
	}
	return state, nil
}

// SetLocked 鎖定或解鎖作答，Fakten 只有在 LIVE 階段可以操作
func SetLocked(room *models.Room, playerID string, locked bool) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	if err := requireLiveRound(room); err != nil {
		return err
	}
	room.Locked = locked
	return nil
}

// Reveal 進入揭曉階段並計算結果
func Reveal(room *models.Room, playerID string) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	if err := requireLiveRound(room); err != nil {
		return err
	}

	room.Phase = models.PhaseReveal
	switch room.Game.Category {
	case models.CategorySortieren:
		room.Game.Sortieren.Reveal = computeSortReveal(room.Game.Sortieren)
	case models.CategoryFehler:
		room.Game.Fehler.Result = computeFehlerResult(room.Game.Fehler)
	}
	return nil
}

// ReturnToHub 從任何階段回到大廳並清除遊戲狀態
func ReturnToHub(room *models.Room, playerID string) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	room.Phase = models.PhaseHub
	room.Locked = false
	room.ActiveRound = nil
	room.Game = nil
	room.Activity = []models.ActivityEntry{}
	return nil
}

func requireLiveRound(room *models.Room) error {
	if room.Phase != models.PhaseInRound || room.Game == nil {
		return ErrBadState
	}
	if !room.Game.Complete() {
		return ErrBadGame
	}
	if room.Game.Category == models.CategoryFakten && room.Game.Fakten.Stage != models.StageLive {
		return ErrBadStage
	}
	return nil
}

// requireRound 檢查房間正在進行指定類別的回合
func requireRound(room *models.Room, category models.Category) error {
	if room.Phase != models.PhaseInRound {
		return ErrBadState
	}
	return requireCategory(room, category)
}

func requireCategory(room *models.Room, category models.Category) error {
	if !hasGame(room, category) {
		return ErrBadGame
	}
	return nil
}

// hasGame 檢查房間的遊戲狀態屬於指定類別且資料完整
func hasGame(room *models.Room, category models.Category) bool {
	return room.Game != nil && room.Game.Category == category && room.Game.Complete()
}

// requireOpenRound 檢查回合進行中且未鎖定
func requireOpenRound(room *models.Room, category models.Category) error {
	if room.Phase != models.PhaseInRound || room.Locked {
		return ErrLocked
	}
	return requireCategory(room, category)
}

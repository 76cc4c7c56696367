package game

import (
	"encoding/json"
	"fmt"

	"party_quiz/internal/models"
)

type itemData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`
}

type trifftData struct {
	Thesis string     `json:"thesis"`
	Items  []itemData `json:"items"`
}

// buildItems 補上缺少的物件 ID（it_<索引>）
func buildItems(data []itemData) []models.Item {
	items := make([]models.Item, 0, len(data))
	for idx, it := range data {
		id := it.ID
		if id == "" {
			id = fmt.Sprintf("it_%d", idx)
		}
		items = append(items, models.Item{ID: id, Name: it.Name, ImgURL: it.ImgURL})
	}
	return items
}

func newTrifft(raw json.RawMessage) (*models.TrifftGame, error) {
	var data trifftData
	if err := decodeRoundData(raw, &data); err != nil {
		return nil, err
	}

	items := buildItems(data.Items)
	g := &models.TrifftGame{
		Thesis:     data.Thesis,
		Items:      items,
		Placements: make(map[string]models.Zone, len(items)),
		Statuses:   make(map[string]models.Mark, len(items)),
		Locks:      make(map[string]*models.Lock, len(items)),
	}
	for _, it := range items {
		g.Placements[it.ID] = models.ZonePool
		g.Statuses[it.ID] = models.MarkNeutral
		g.Locks[it.ID] = nil
	}
	return g, nil
}

// TrifftPlace 將物件放到指定區域並釋放鎖
func TrifftPlace(env Env, room *models.Room, playerID, itemID string, zone models.Zone) error {
	SweepExpiredLocks(env, room)
	if err := requireOpenRound(room, models.CategoryTrifft); err != nil {
		return err
	}
	if !zone.Valid() {
		return ErrBadZone
	}

	g := room.Game.Trifft
	if _, ok := g.Placements[itemID]; !ok {
		return ErrBadItem
	}
	if heldByOther(env, g.Locks[itemID], playerID) {
		return ErrNotOwner
	}

	g.Placements[itemID] = zone
	g.Locks[itemID] = nil

	if zone == models.ZonePool {
		return nil
	}
	if it := findItem(g.Items, itemID); it != nil {
		label := "Trifft zu"
		if zone == models.ZoneNicht {
			label = "Trifft nicht zu"
		}
		AppendActivity(env, room, fmt.Sprintf("%s legt %s zu „%s“", DisplayName(room, playerID), it.Name, label))
	}
	return nil
}

// TrifftMark 由主持人在鎖定後標記物件
func TrifftMark(room *models.Room, playerID, itemID string, status models.Mark) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	if room.Phase != models.PhaseInRound {
		return ErrBadState
	}
	if !room.Locked {
		return ErrNotLocked
	}
	if err := requireCategory(room, models.CategoryTrifft); err != nil {
		return err
	}
	if !status.Valid() {
		return ErrBadStatus
	}

	g := room.Game.Trifft
	if _, ok := g.Statuses[itemID]; !ok {
		return ErrBadItem
	}
	g.Statuses[itemID] = status
	return nil
}

func findItem(items []models.Item, id string) *models.Item {
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

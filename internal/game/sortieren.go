package game

import (
	"encoding/json"
	"fmt"

	"party_quiz/internal/models"
)

type sortierenData struct {
	AxisLeftLabel  string     `json:"axisLeftLabel"`
	AxisRightLabel string     `json:"axisRightLabel"`
	Items          []itemData `json:"items"`
	SolutionOrder  []string   `json:"solutionOrder"`
}

func newSortieren(env Env, raw json.RawMessage) (*models.SortierenGame, error) {
	var data sortierenData
	if err := decodeRoundData(raw, &data); err != nil {
		return nil, err
	}

	items := buildItems(data.Items)
	locks := make(map[string]*models.Lock, len(items))
	poolOrder := make([]string, 0, len(items))
	for _, it := range items {
		locks[it.ID] = nil
		poolOrder = append(poolOrder, it.ID)
	}
	env.Shuffle(len(poolOrder), func(i, j int) {
		poolOrder[i], poolOrder[j] = poolOrder[j], poolOrder[i]
	})

	solution := data.SolutionOrder
	if solution == nil {
		solution = make([]string, 0, len(items))
		for _, it := range items {
			solution = append(solution, it.ID)
		}
	}

	return &models.SortierenGame{
		AxisLeftLabel:  data.AxisLeftLabel,
		AxisRightLabel: data.AxisRightLabel,
		Items:          items,
		Locks:          locks,
		Slots:          make([]*string, len(items)),
		PoolOrder:      poolOrder,
		SolutionOrder:  solution,
	}, nil
}

// SortPlace 將物件移到指定位置，slotIndex 為 nil 時放回物件池。
// 目標位置已有物件時直接覆蓋，不會交換
func SortPlace(env Env, room *models.Room, playerID, itemID string, slotIndex *int) error {
	SweepExpiredLocks(env, room)
	if err := requireOpenRound(room, models.CategorySortieren); err != nil {
		return err
	}

	g := room.Game.Sortieren
	it := findItem(g.Items, itemID)
	if it == nil {
		return ErrBadItem
	}
	if heldByOther(env, g.Locks[itemID], playerID) {
		return ErrNotOwner
	}
	if slotIndex != nil && (*slotIndex < 0 || *slotIndex >= len(g.Slots)) {
		return ErrBadSlot
	}

	for i, s := range g.Slots {
		if s != nil && *s == itemID {
			g.Slots[i] = nil
			break
		}
	}
	if slotIndex != nil {
		id := itemID
		g.Slots[*slotIndex] = &id
		AppendActivity(env, room, fmt.Sprintf("%s platziert %s auf Slot #%d", DisplayName(room, playerID), it.Name, *slotIndex+1))
	}
	g.Locks[itemID] = nil
	return nil
}

func computeSortReveal(g *models.SortierenGame) *models.SortReveal {
	correctness := make([]bool, len(g.Slots))
	for i, s := range g.Slots {
		correctness[i] = s != nil && i < len(g.SolutionOrder) && *s == g.SolutionOrder[i]
	}
	return &models.SortReveal{Correctness: correctness}
}

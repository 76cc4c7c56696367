package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"party_quiz/internal/models"
)

const (
	defaultRows   = 4
	defaultCols   = 10
	maxAnswerText = 60
)

type aufzaehlenData struct {
	Question string  `json:"question"`
	Rows     float64 `json:"rows"`
	Cols     float64 `json:"cols"`
}

func newAufzaehlen(raw json.RawMessage) (*models.AufzaehlenGame, error) {
	var data aufzaehlenData
	if err := decodeRoundData(raw, &data); err != nil {
		return nil, err
	}

	rows, cols := int(data.Rows), int(data.Cols)
	if rows == 0 {
		rows = defaultRows
	}
	if cols == 0 {
		cols = defaultCols
	}
	return &models.AufzaehlenGame{
		Question: data.Question,
		Rows:     rows,
		Cols:     cols,
		Cells:    emptyGrid(rows, cols),
	}, nil
}

func emptyGrid(rows, cols int) []models.Cell {
	n := max(1, rows) * max(1, cols)
	cells := make([]models.Cell, n)
	for i := range cells {
		cells[i] = models.Cell{Status: models.MarkNeutral}
	}
	return cells
}

// AufzaehlenAdd 將答案填入第一個空格
func AufzaehlenAdd(env Env, room *models.Room, playerID, text string) error {
	SweepExpiredLocks(env, room)
	if err := requireOpenRound(room, models.CategoryAufzaehlen); err != nil {
		return err
	}
	text = truncate(strings.TrimSpace(text), maxAnswerText)
	if text == "" {
		return ErrEmpty
	}

	cells := room.Game.Aufzaehlen.Cells
	for i := range cells {
		if cells[i].Text != "" {
			continue
		}
		cells[i] = models.Cell{Text: text, OwnerID: playerID, Status: models.MarkNeutral}
		AppendActivity(env, room, fmt.Sprintf("%s gibt „%s“ ein", DisplayName(room, playerID), text))
		return nil
	}
	return ErrFull
}

// AufzaehlenDelete 清除一格，只有填寫者或主持人可以刪除
func AufzaehlenDelete(room *models.Room, playerID string, index int) error {
	if err := requireOpenRound(room, models.CategoryAufzaehlen); err != nil {
		return err
	}
	cells := room.Game.Aufzaehlen.Cells
	if index < 0 || index >= len(cells) {
		return ErrBadIndex
	}
	EnsureHost(room)
	if cells[index].OwnerID != playerID && !IsHost(room, playerID) {
		return ErrForbidden
	}
	cells[index] = models.Cell{Status: models.MarkNeutral}
	return nil
}

// AufzaehlenClearAll 由主持人清空整個表格
func AufzaehlenClearAll(room *models.Room, playerID string) error {
	if room.Phase != models.PhaseInRound {
		return ErrBadState
	}
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	if err := requireCategory(room, models.CategoryAufzaehlen); err != nil {
		return err
	}
	g := room.Game.Aufzaehlen
	g.Cells = emptyGrid(g.Rows, g.Cols)
	return nil
}

// AufzaehlenMark 由主持人標記答案，回合中或揭曉時皆可
func AufzaehlenMark(room *models.Room, playerID string, index int, status models.Mark) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	if room.Phase != models.PhaseInRound && room.Phase != models.PhaseReveal {
		return ErrBadState
	}
	if err := requireCategory(room, models.CategoryAufzaehlen); err != nil {
		return err
	}
	if !status.Valid() {
		return ErrBadStatus
	}
	cells := room.Game.Aufzaehlen.Cells
	if index < 0 || index >= len(cells) {
		return ErrBadIndex
	}
	if cells[index].Text == "" {
		return ErrEmpty
	}
	cells[index].Status = status
	return nil
}

func decodeRoundData(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return ErrBadRound
	}
	return nil
}

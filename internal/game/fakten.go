package game

import (
	"encoding/json"
	"fmt"
	"strings"

	"party_quiz/internal/models"
)

const maxFactText = 220

type pokemonData struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`
}

type factData struct {
	ID                  string   `json:"id"`
	Text                string   `json:"text"`
	AppliesToPokemonIDs []string `json:"appliesToPokemonIds"`
}

type faktenData struct {
	Prompt            string        `json:"prompt"`
	Pokemon           []pokemonData `json:"pokemon"`
	Facts             []factData    `json:"facts"`
	SolutionPokemonID string        `json:"solutionPokemonId"`
}

func newFakten(env Env, raw json.RawMessage) (*models.FaktenGame, error) {
	var data faktenData
	if err := decodeRoundData(raw, &data); err != nil {
		return nil, err
	}

	pokemon := make([]models.Pokemon, 0, len(data.Pokemon))
	for idx, p := range data.Pokemon {
		id := p.ID
		if id == "" {
			id = fmt.Sprintf("p_%d", idx)
		}
		pokemon = append(pokemon, models.Pokemon{ID: id, Name: p.Name, ImgURL: p.ImgURL})
	}

	facts := make([]models.Fact, 0, len(data.Facts))
	for idx, f := range data.Facts {
		id := f.ID
		if id == "" {
			id = fmt.Sprintf("f_%d", idx)
		}
		facts = append(facts, models.Fact{ID: id, Text: f.Text, AppliesToPokemonIDs: f.AppliesToPokemonIDs})
	}
	shuffleFacts(env, facts)

	return &models.FaktenGame{
		Stage:             models.StagePickSaboteur,
		Prompt:            data.Prompt,
		Pokemon:           pokemon,
		Facts:             facts,
		SolutionPokemonID: data.SolutionPokemonID,
	}, nil
}

func shuffleFacts(env Env, facts []models.Fact) {
	env.Shuffle(len(facts), func(i, j int) {
		facts[i], facts[j] = facts[j], facts[i]
	})
}

func copyFacts(facts []models.Fact) []models.Fact {
	out := make([]models.Fact, len(facts))
	for i, f := range facts {
		if f.AppliesToPokemonIDs != nil {
			f.AppliesToPokemonIDs = append([]string(nil), f.AppliesToPokemonIDs...)
		}
		out[i] = f
	}
	return out
}

func indexOfFact(facts []models.Fact, id string) int {
	for i := range facts {
		if facts[i].ID == id {
			return i
		}
	}
	return -1
}

// requireFaktenStage 檢查回合進行中且 Fakten 處於指定階段
func requireFaktenStage(room *models.Room, stage models.FaktenStage) (*models.FaktenGame, error) {
	if err := requireRound(room, models.CategoryFakten); err != nil {
		return nil, err
	}
	g := room.Game.Fakten
	if g.Stage != stage {
		return nil, ErrBadStage
	}
	return g, nil
}

// SelectSaboteur 由主持人指定破壞者並進入 SABOTAGE 階段
func SelectSaboteur(room *models.Room, playerID, saboteurID string) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	g, err := requireFaktenStage(room, models.StagePickSaboteur)
	if err != nil {
		return err
	}
	if room.FindPlayer(saboteurID) == nil {
		return ErrBadPlayer
	}

	g.SaboteurID = saboteurID
	g.Stage = models.StageSabotage
	g.SaboteurReady = false
	g.Sabotage = models.Sabotage{}
	g.TeamPickPokemonID = ""
	room.Locked = false
	return nil
}

// SabotageInput 是破壞者提交的動作
type SabotageInput struct {
	Action       models.SabotageAction
	TargetFactID string
	Text         string
}

// ApplySabotage 執行破壞者唯一一次的動作，之前的線索會保存以便復原
func ApplySabotage(env Env, room *models.Room, playerID string, in SabotageInput) error {
	if err := requireOpenRound(room, models.CategoryFakten); err != nil {
		return err
	}
	g := room.Game.Fakten
	if g.Stage != models.StageSabotage {
		return ErrBadStage
	}
	if g.SaboteurID != playerID {
		return ErrNotSaboteur
	}
	if g.Sabotage.ActionUsed {
		return ErrAlreadyUsed
	}
	if !in.Action.Valid() {
		return ErrBadAction
	}

	snapshot := copyFacts(g.Facts)
	detail := &models.SabotageDetail{}
	text := truncate(strings.TrimSpace(in.Text), maxFactText)

	switch in.Action {
	case models.SabotageDelete:
		idx := indexOfFact(g.Facts, in.TargetFactID)
		if idx < 0 {
			return ErrBadTarget
		}
		detail.Index = intPtr(idx + 1)
		detail.OldText = stringPtr(g.Facts[idx].Text)
		g.Facts = append(g.Facts[:idx:idx], g.Facts[idx+1:]...)
	case models.SabotageEdit:
		idx := indexOfFact(g.Facts, in.TargetFactID)
		if idx < 0 {
			return ErrBadTarget
		}
		if text == "" {
			return ErrEmpty
		}
		detail.Index = intPtr(idx + 1)
		detail.OldText = stringPtr(g.Facts[idx].Text)
		detail.NewText = stringPtr(text)
		g.Facts[idx].Text = text
		// 編輯過的線索不再對應任何答案
		g.Facts[idx].AppliesToPokemonIDs = nil
	case models.SabotageAdd:
		if text == "" {
			return ErrEmpty
		}
		detail.Index = intPtr(len(snapshot) + 1)
		detail.NewText = stringPtr(text)
		g.Facts = append(g.Facts, models.Fact{ID: env.NewID("fact"), Text: text})
	}

	shuffleFacts(env, g.Facts)
	g.Sabotage = models.Sabotage{
		ActionUsed:    true,
		ActionType:    in.Action,
		Detail:        detail,
		SnapshotFacts: snapshot,
	}
	g.SaboteurReady = false
	return nil
}

// UndoSabotage 由破壞者復原自己的動作
func UndoSabotage(room *models.Room, playerID string) error {
	g, err := requireFaktenStage(room, models.StageSabotage)
	if err != nil {
		return err
	}
	if g.SaboteurID != playerID {
		return ErrNotSaboteur
	}
	return restoreSnapshot(g)
}

// HostUndoSabotage 由主持人復原破壞者的動作
func HostUndoSabotage(room *models.Room, playerID string) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	g, err := requireFaktenStage(room, models.StageSabotage)
	if err != nil {
		return err
	}
	return restoreSnapshot(g)
}

func restoreSnapshot(g *models.FaktenGame) error {
	if !g.Sabotage.ActionUsed {
		return ErrNoAction
	}
	if g.Sabotage.SnapshotFacts == nil {
		return ErrNoSnapshot
	}
	g.Facts = copyFacts(g.Sabotage.SnapshotFacts)
	g.Sabotage = models.Sabotage{}
	g.SaboteurReady = false
	return nil
}

// SaboteurReady 破壞者完成動作後宣告準備好
func SaboteurReady(room *models.Room, playerID string) error {
	g, err := requireFaktenStage(room, models.StageSabotage)
	if err != nil {
		return err
	}
	if g.SaboteurID != playerID {
		return ErrNotSaboteur
	}
	if !g.Sabotage.ActionUsed {
		return ErrNoAction
	}
	g.SaboteurReady = true
	return nil
}

// ReleaseFacts 由主持人公開線索並進入 LIVE 階段，公開的文字會凍結成快照
func ReleaseFacts(env Env, room *models.Room, playerID string) error {
	if err := requireHost(room, playerID); err != nil {
		return err
	}
	g, err := requireFaktenStage(room, models.StageSabotage)
	if err != nil {
		return err
	}
	if !g.SaboteurReady {
		return ErrNotReady
	}

	g.Stage = models.StageLive
	g.FactsText = make([]string, 0, len(g.Facts))
	for _, f := range g.Facts {
		g.FactsText = append(g.FactsText, f.Text)
	}
	g.FactsRevision = env.NewID("rev")
	g.TeamPickPokemonID = ""
	room.Locked = false
	return nil
}

// PickPokemon 切換團隊的選擇，再點一次同一個會取消
func PickPokemon(room *models.Room, pokemonID string) error {
	if err := requireOpenRound(room, models.CategoryFakten); err != nil {
		return err
	}
	g := room.Game.Fakten
	if g.Stage != models.StageLive {
		return ErrBadStage
	}

	found := false
	for _, p := range g.Pokemon {
		if p.ID == pokemonID {
			found = true
			break
		}
	}
	if !found {
		return ErrBadPokemon
	}

	if g.TeamPickPokemonID == pokemonID {
		g.TeamPickPokemonID = ""
	} else {
		g.TeamPickPokemonID = pokemonID
	}
	return nil
}

func intPtr(v int) *int { return &v }

func stringPtr(v string) *string { return &v }

package service

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"

	"party_quiz/internal/game"
	"party_quiz/internal/models"
)

// Command 是客戶端可以送出的指令，只有本檔定義的型別可以實作
type Command interface {
	Type() string
	apply(env game.Env, room *models.Room, playerID string) (bool, error)
}

type (
	StartRoundCommand struct {
		Category models.Category `json:"category" validate:"omitempty,oneof=aufzaehlen trifft sortieren fakten fehler" errcode:"bad_category"`
		RoundID  string          `json:"roundId" validate:"required"`

		round *models.Round
	}
	LockCommand   struct{}
	UnlockCommand struct{}
	RevealCommand struct{}
	HubCommand    struct{}

	AufzaehlenAddCommand struct {
		Text string `json:"text"`
	}
	AufzaehlenDeleteCommand struct {
		Index *int `json:"index" validate:"required" errcode:"bad_index"`
	}
	AufzaehlenClearAllCommand struct{}
	AufzaehlenMarkCommand     struct {
		Index  *int        `json:"index" validate:"required" errcode:"bad_index"`
		Status models.Mark `json:"status" validate:"oneof=neutral correct wrong" errcode:"bad_status"`
	}

	TrifftReserveCommand struct {
		ItemID string `json:"itemId" validate:"required" errcode:"bad_item"`
	}
	TrifftReleaseCommand struct {
		ItemID string `json:"itemId" validate:"required" errcode:"bad_item"`
	}
	TrifftPlaceCommand struct {
		ItemID string      `json:"itemId" validate:"required" errcode:"bad_item"`
		Zone   models.Zone `json:"zone" validate:"oneof=pool zu nicht" errcode:"bad_zone"`
	}
	TrifftMarkCommand struct {
		ItemID string      `json:"itemId" validate:"required" errcode:"bad_item"`
		Status models.Mark `json:"status" validate:"oneof=neutral correct wrong" errcode:"bad_status"`
	}

	SortReserveCommand struct {
		ItemID string `json:"itemId" validate:"required" errcode:"bad_item"`
	}
	SortReleaseCommand struct {
		ItemID string `json:"itemId" validate:"required" errcode:"bad_item"`
	}
	SortPlaceCommand struct {
		ItemID    string `json:"itemId" validate:"required" errcode:"bad_item"`
		SlotIndex *int   `json:"slotIndex" validate:"omitempty,min=0" errcode:"bad_slot"`
	}

	SelectSaboteurCommand struct {
		SaboteurID string `json:"saboteurId" validate:"required" errcode:"bad_player"`
	}
	SabotageCommand struct {
		ActionType   models.SabotageAction `json:"actionType" validate:"oneof=delete edit add" errcode:"bad_action"`
		TargetFactID string                `json:"targetFactId"`
		Text         string                `json:"text"`
	}
	UndoSabotageCommand     struct{}
	HostUndoSabotageCommand struct{}
	SaboteurReadyCommand    struct{}
	ReleaseFactsCommand     struct{}
	PickPokemonCommand      struct {
		PokemonID string `json:"pokemonId" validate:"required" errcode:"bad_pokemon"`
	}

	SetImageSizeCommand struct {
		W float64 `json:"w" validate:"gt=0" errcode:"bad_size"`
		H float64 `json:"h" validate:"gt=0" errcode:"bad_size"`
	}
	SetMarkerCommand struct {
		X *float64 `json:"x" validate:"required,min=0,max=1" errcode:"bad_target"`
		Y *float64 `json:"y" validate:"required,min=0,max=1" errcode:"bad_target"`
	}
)

var commandFactories = map[string]func() Command{
	"host:startRound": func() Command { return &StartRoundCommand{} },
	"host:lock":       func() Command { return &LockCommand{} },
	"host:unlock":     func() Command { return &UnlockCommand{} },
	"host:reveal":     func() Command { return &RevealCommand{} },
	"host:hub":        func() Command { return &HubCommand{} },

	"aufzaehlen:add":      func() Command { return &AufzaehlenAddCommand{} },
	"aufzaehlen:delete":   func() Command { return &AufzaehlenDeleteCommand{} },
	"aufzaehlen:clearAll": func() Command { return &AufzaehlenClearAllCommand{} },
	"aufzaehlen:mark":     func() Command { return &AufzaehlenMarkCommand{} },

	"trifft:reserve": func() Command { return &TrifftReserveCommand{} },
	"trifft:release": func() Command { return &TrifftReleaseCommand{} },
	"trifft:place":   func() Command { return &TrifftPlaceCommand{} },
	"trifft:mark":    func() Command { return &TrifftMarkCommand{} },

	"sort:reserve": func() Command { return &SortReserveCommand{} },
	"sort:release": func() Command { return &SortReleaseCommand{} },
	"sort:place":   func() Command { return &SortPlaceCommand{} },

	"fakten:selectSaboteur": func() Command { return &SelectSaboteurCommand{} },
	"fakten:sabotage":       func() Command { return &SabotageCommand{} },
	"fakten:undo":           func() Command { return &UndoSabotageCommand{} },
	"fakten:hostUndo":       func() Command { return &HostUndoSabotageCommand{} },
	"fakten:ready":          func() Command { return &SaboteurReadyCommand{} },
	"fakten:release":        func() Command { return &ReleaseFactsCommand{} },
	"fakten:pick":           func() Command { return &PickPokemonCommand{} },

	"fehler:setImageSize": func() Command { return &SetImageSizeCommand{} },
	"fehler:setMarker":    func() Command { return &SetMarkerCommand{} },
}

// validationErrors 將 errcode 標籤對應到領域錯誤
var validationErrors = map[string]error{
	"bad_category": game.ErrBadCategory,
	"bad_index":    game.ErrBadIndex,
	"bad_status":   game.ErrBadStatus,
	"bad_item":     game.ErrBadItem,
	"bad_zone":     game.ErrBadZone,
	"bad_slot":     game.ErrBadSlot,
	"bad_player":   game.ErrBadPlayer,
	"bad_action":   game.ErrBadAction,
	"bad_pokemon":  game.ErrBadPokemon,
	"bad_size":     game.ErrBadSize,
	"bad_target":   game.ErrBadTarget,
}

var validate = validator.New()

// DecodeCommand 解析 {"type": "...", ...} 格式的指令並驗證欄位
func DecodeCommand(body []byte) (Command, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, game.ErrBadCommand
	}

	factory, ok := commandFactories[envelope.Type]
	if !ok {
		return nil, game.ErrUnknownCommand
	}
	cmd := factory()
	if err := json.Unmarshal(body, cmd); err != nil {
		return nil, game.ErrBadCommand
	}
	if err := validate.Struct(cmd); err != nil {
		return nil, validationError(cmd, err)
	}
	return cmd, nil
}

func validationError(cmd Command, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return game.ErrBadCommand
	}

	t := reflect.TypeOf(cmd).Elem()
	field, ok := t.FieldByName(fieldErrs[0].StructField())
	if !ok {
		return game.ErrBadCommand
	}
	if mapped, ok := validationErrors[field.Tag.Get("errcode")]; ok {
		return mapped
	}
	return game.ErrBadCommand
}

func (*StartRoundCommand) Type() string         { return "host:startRound" }
func (*LockCommand) Type() string               { return "host:lock" }
func (*UnlockCommand) Type() string             { return "host:unlock" }
func (*RevealCommand) Type() string             { return "host:reveal" }
func (*HubCommand) Type() string                { return "host:hub" }
func (*AufzaehlenAddCommand) Type() string      { return "aufzaehlen:add" }
func (*AufzaehlenDeleteCommand) Type() string   { return "aufzaehlen:delete" }
func (*AufzaehlenClearAllCommand) Type() string { return "aufzaehlen:clearAll" }
func (*AufzaehlenMarkCommand) Type() string     { return "aufzaehlen:mark" }
func (*TrifftReserveCommand) Type() string      { return "trifft:reserve" }
func (*TrifftReleaseCommand) Type() string      { return "trifft:release" }
func (*TrifftPlaceCommand) Type() string        { return "trifft:place" }
func (*TrifftMarkCommand) Type() string         { return "trifft:mark" }
func (*SortReserveCommand) Type() string        { return "sort:reserve" }
func (*SortReleaseCommand) Type() string        { return "sort:release" }
func (*SortPlaceCommand) Type() string          { return "sort:place" }
func (*SelectSaboteurCommand) Type() string     { return "fakten:selectSaboteur" }
func (*SabotageCommand) Type() string           { return "fakten:sabotage" }
func (*UndoSabotageCommand) Type() string       { return "fakten:undo" }
func (*HostUndoSabotageCommand) Type() string   { return "fakten:hostUndo" }
func (*SaboteurReadyCommand) Type() string      { return "fakten:ready" }
func (*ReleaseFactsCommand) Type() string       { return "fakten:release" }
func (*PickPokemonCommand) Type() string        { return "fakten:pick" }
func (*SetImageSizeCommand) Type() string       { return "fehler:setImageSize" }
func (*SetMarkerCommand) Type() string          { return "fehler:setMarker" }

// changedOrErr 將只回傳錯誤的變更函式轉成 mutator 的回傳值
func changedOrErr(err error) (bool, error) {
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *StartRoundCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	if c.round == nil {
		return false, game.ErrRoundNotFound
	}
	return changedOrErr(game.StartRound(env, room, playerID, c.Category, c.round))
}

func (*LockCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.SetLocked(room, playerID, true))
}

func (*UnlockCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.SetLocked(room, playerID, false))
}

func (*RevealCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.Reveal(room, playerID))
}

func (*HubCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.ReturnToHub(room, playerID))
}

func (c *AufzaehlenAddCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.AufzaehlenAdd(env, room, playerID, c.Text))
}

func (c *AufzaehlenDeleteCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.AufzaehlenDelete(room, playerID, *c.Index))
}

func (*AufzaehlenClearAllCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.AufzaehlenClearAll(room, playerID))
}

func (c *AufzaehlenMarkCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.AufzaehlenMark(room, playerID, *c.Index, c.Status))
}

func (c *TrifftReserveCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.Reserve(env, room, models.CategoryTrifft, playerID, c.ItemID))
}

func (c *TrifftReleaseCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	game.EnsureHost(room)
	return game.Release(room, models.CategoryTrifft, playerID, c.ItemID), nil
}

func (c *TrifftPlaceCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.TrifftPlace(env, room, playerID, c.ItemID, c.Zone))
}

func (c *TrifftMarkCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.TrifftMark(room, playerID, c.ItemID, c.Status))
}

func (c *SortReserveCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.Reserve(env, room, models.CategorySortieren, playerID, c.ItemID))
}

func (c *SortReleaseCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	game.EnsureHost(room)
	return game.Release(room, models.CategorySortieren, playerID, c.ItemID), nil
}

func (c *SortPlaceCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.SortPlace(env, room, playerID, c.ItemID, c.SlotIndex))
}

func (c *SelectSaboteurCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.SelectSaboteur(room, playerID, c.SaboteurID))
}

func (c *SabotageCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.ApplySabotage(env, room, playerID, game.SabotageInput{
		Action:       c.ActionType,
		TargetFactID: c.TargetFactID,
		Text:         c.Text,
	}))
}

func (*UndoSabotageCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.UndoSabotage(room, playerID))
}

func (*HostUndoSabotageCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.HostUndoSabotage(room, playerID))
}

func (*SaboteurReadyCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.SaboteurReady(room, playerID))
}

func (*ReleaseFactsCommand) apply(env game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.ReleaseFacts(env, room, playerID))
}

func (c *PickPokemonCommand) apply(_ game.Env, room *models.Room, _ string) (bool, error) {
	return changedOrErr(game.PickPokemon(room, c.PokemonID))
}

func (c *SetImageSizeCommand) apply(_ game.Env, room *models.Room, _ string) (bool, error) {
	return game.SetImageSize(room, c.W, c.H)
}

func (c *SetMarkerCommand) apply(_ game.Env, room *models.Room, playerID string) (bool, error) {
	return changedOrErr(game.SetMarker(room, playerID, *c.X, *c.Y))
}

package models

// Category 定義小遊戲類別
type Category string

const (
	CategoryAufzaehlen Category = "aufzaehlen"
	CategoryTrifft     Category = "trifft"
	CategorySortieren  Category = "sortieren"
	CategoryFakten     Category = "fakten"
	CategoryFehler     Category = "fehler"
)

// Valid 檢查類別是否為已知類別
func (c Category) Valid() bool {
	switch c {
	case CategoryAufzaehlen, CategoryTrifft, CategorySortieren, CategoryFakten, CategoryFehler:
		return true
	}
	return false
}

// GameState 是以 Category 區分的聯合型別，只有對應類別的欄位不為 nil
type GameState struct {
	Category   Category        `json:"category"`
	Aufzaehlen *AufzaehlenGame `json:"aufzaehlen,omitempty"`
	Trifft     *TrifftGame     `json:"trifft,omitempty"`
	Sortieren  *SortierenGame  `json:"sortieren,omitempty"`
	Fakten     *FaktenGame     `json:"fakten,omitempty"`
	Fehler     *FehlerGame     `json:"fehler,omitempty"`
}

// Complete 檢查 Category 對應的欄位存在
func (g *GameState) Complete() bool {
	if g == nil {
		return false
	}
	switch g.Category {
	case CategoryAufzaehlen:
		return g.Aufzaehlen != nil
	case CategoryTrifft:
		return g.Trifft != nil
	case CategorySortieren:
		return g.Sortieren != nil
	case CategoryFakten:
		return g.Fakten != nil
	case CategoryFehler:
		return g.Fehler != nil
	}
	return false
}

// Locks 回傳目前遊戲的物件鎖，只有 Trifft 和 Sortieren 有鎖
func (g *GameState) Locks() map[string]*Lock {
	if g == nil {
		return nil
	}
	switch g.Category {
	case CategoryTrifft:
		if g.Trifft != nil {
			return g.Trifft.Locks
		}
	case CategorySortieren:
		if g.Sortieren != nil {
			return g.Sortieren.Locks
		}
	}
	return nil
}

// Mark 是主持人給出的判定
type Mark string

const (
	MarkNeutral Mark = "neutral"
	MarkCorrect Mark = "correct"
	MarkWrong   Mark = "wrong"
)

// Valid 檢查判定值
func (m Mark) Valid() bool {
	return m == MarkNeutral || m == MarkCorrect || m == MarkWrong
}

// Item 是 Trifft 和 Sortieren 中可拖曳的物件
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`
}

// Cell 是 Aufzählen 表格中的一格
type Cell struct {
	Text    string `json:"text"`
	OwnerID string `json:"ownerId,omitempty"`
	Status  Mark   `json:"status"`
}

// AufzaehlenGame 列舉遊戲
type AufzaehlenGame struct {
	Question string `json:"question"`
	Rows     int    `json:"rows"`
	Cols     int    `json:"cols"`
	Cells    []Cell `json:"cells"`
}

// Zone 是 Trifft 物件的放置區域
type Zone string

const (
	ZonePool  Zone = "pool"
	ZoneZu    Zone = "zu"
	ZoneNicht Zone = "nicht"
)

// Valid 檢查區域值
func (z Zone) Valid() bool {
	return z == ZonePool || z == ZoneZu || z == ZoneNicht
}

// TrifftGame 分類遊戲
type TrifftGame struct {
	Thesis     string           `json:"thesis"`
	Items      []Item           `json:"items"`
	Placements map[string]Zone  `json:"placements"`
	Statuses   map[string]Mark  `json:"statuses"`
	Locks      map[string]*Lock `json:"locks"`
}

// SortierenGame 排序遊戲
type SortierenGame struct {
	AxisLeftLabel  string           `json:"axisLeftLabel"`
	AxisRightLabel string           `json:"axisRightLabel"`
	Items          []Item           `json:"items"`
	Locks          map[string]*Lock `json:"locks"`
	Slots          []*string        `json:"slots"`
	PoolOrder      []string         `json:"poolOrder"`
	SolutionOrder  []string         `json:"solutionOrder"`
	Reveal         *SortReveal      `json:"reveal"`
}

// SortReveal 揭曉時每個位置的正確性
type SortReveal struct {
	Correctness []bool `json:"correctness"`
}

// FaktenStage 是 Fakten 遊戲內部階段
type FaktenStage string

const (
	StagePickSaboteur FaktenStage = "PICK_SABOTEUR"
	StageSabotage     FaktenStage = "SABOTAGE"
	StageLive         FaktenStage = "LIVE"
)

// Pokemon 是 Fakten 中可以被選擇的答案
type Pokemon struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	ImgURL string `json:"imgUrl"`
}

// Fact 是一條線索，AppliesToPokemonIDs 為 nil 表示沒有對應資料
type Fact struct {
	ID                  string   `json:"id"`
	Text                string   `json:"text"`
	AppliesToPokemonIDs []string `json:"appliesToPokemonIds"`
}

// SabotageAction 定義破壞者的動作
type SabotageAction string

const (
	SabotageDelete SabotageAction = "delete"
	SabotageEdit   SabotageAction = "edit"
	SabotageAdd    SabotageAction = "add"
)

// Valid 檢查動作類型
func (a SabotageAction) Valid() bool {
	return a == SabotageDelete || a == SabotageEdit || a == SabotageAdd
}

// SabotageDetail 描述破壞動作的細節，Index 從 1 開始
type SabotageDetail struct {
	Index   *int    `json:"index"`
	OldText *string `json:"oldText"`
	NewText *string `json:"newText"`
}

// Sabotage 是破壞階段的狀態
type Sabotage struct {
	ActionUsed    bool            `json:"actionUsed"`
	ActionType    SabotageAction  `json:"actionType,omitempty"`
	Detail        *SabotageDetail `json:"detail"`
	SnapshotFacts []Fact          `json:"snapshotFacts"`
}

// FaktenGame 破壞與猜測遊戲
type FaktenGame struct {
	Stage             FaktenStage `json:"stage"`
	Prompt            string      `json:"prompt"`
	Pokemon           []Pokemon   `json:"pokemon"`
	Facts             []Fact      `json:"facts"`
	SolutionPokemonID string      `json:"solutionPokemonId,omitempty"`
	SaboteurID        string      `json:"saboteurId,omitempty"`
	SaboteurReady     bool        `json:"saboteurReady"`
	Sabotage          Sabotage    `json:"sabotage"`
	FactsText         []string    `json:"factsText"`
	FactsRevision     string      `json:"factsRevision,omitempty"`
	TeamPickPokemonID string      `json:"teamPickPokemonId,omitempty"`
}

// Circle 是以圖片正規化座標 [0,1] 表示的圓，R 為圖片短邊的比例
type Circle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

// Marker 是團隊的猜測位置
type Marker struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	By string  `json:"by"`
}

// FehlerResult 是揭曉時計算的結果，距離和半徑都以圖片短邊為單位
type FehlerResult struct {
	Win      bool    `json:"win"`
	Distance float64 `json:"distance"`
	Radius   float64 `json:"radius"`
}

// FehlerGame 找不同遊戲
type FehlerGame struct {
	ErrorImageURL   string        `json:"errorImageUrl"`
	CorrectImageURL string        `json:"correctImageUrl"`
	ImageWidth      float64       `json:"imageWidth"`
	ImageHeight     float64       `json:"imageHeight"`
	Solution        *Circle       `json:"solution"`
	Marker          *Marker       `json:"marker"`
	Result          *FehlerResult `json:"result"`
}

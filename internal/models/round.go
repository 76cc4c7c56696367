package models

import "encoding/json"

// Round 是唯讀的回合定義，Data 內容依類別而定
type Round struct {
	ID       string          `json:"id"`
	Category Category        `json:"category"`
	Name     string          `json:"name"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// RoundSummary 是回合選單用的簡要資訊
type RoundSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

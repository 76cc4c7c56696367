package game

import (
	"encoding/json"
	"math"

	"party_quiz/internal/models"
)

const (
	defaultSolutionRadius = 0.1
	imageSizeTolerance    = 0.5
)

type fehlerData struct {
	ErrorImageURL   string         `json:"errorImageUrl"`
	CorrectImageURL string         `json:"correctImageUrl"`
	ImageWidth      float64        `json:"imageWidth"`
	ImageHeight     float64        `json:"imageHeight"`
	Solution        *models.Circle `json:"solution"`
}

func newFehler(raw json.RawMessage) (*models.FehlerGame, error) {
	var data fehlerData
	if err := decodeRoundData(raw, &data); err != nil {
		return nil, err
	}
	return &models.FehlerGame{
		ErrorImageURL:   data.ErrorImageURL,
		CorrectImageURL: data.CorrectImageURL,
		ImageWidth:      data.ImageWidth,
		ImageHeight:     data.ImageHeight,
		Solution:        data.Solution,
	}, nil
}

// SetImageSize 記錄圖片原始尺寸，回傳 false 表示不需要寫入
func SetImageSize(room *models.Room, w, h float64) (bool, error) {
	if !hasGame(room, models.CategoryFehler) {
		return false, nil
	}
	if !(w > 0) || !(h > 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		return false, ErrBadSize
	}

	g := room.Game.Fehler
	if math.Abs(g.ImageWidth-w) < imageSizeTolerance && math.Abs(g.ImageHeight-h) < imageSizeTolerance {
		return false, nil
	}
	g.ImageWidth = w
	g.ImageHeight = h
	return true, nil
}

// SetMarker 記錄團隊的猜測位置，座標為 [0,1] 的圖片正規化座標
func SetMarker(room *models.Room, playerID string, x, y float64) error {
	if err := requireOpenRound(room, models.CategoryFehler); err != nil {
		return err
	}
	if !inUnitRange(x) || !inUnitRange(y) {
		return ErrBadTarget
	}
	room.Game.Fehler.Marker = &models.Marker{X: x, Y: y, By: playerID}
	return nil
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}

// computeFehlerResult 以圖片短邊為單位計算猜測與答案的距離
func computeFehlerResult(g *models.FehlerGame) *models.FehlerResult {
	radius := defaultSolutionRadius
	if g.Solution != nil && g.Solution.R > 0 {
		radius = g.Solution.R
	}
	result := &models.FehlerResult{Radius: radius}
	if g.Marker == nil || g.Solution == nil {
		return result
	}

	w, h := g.ImageWidth, g.ImageHeight
	if w <= 0 || h <= 0 {
		w, h = 1, 1
	}
	short := math.Min(w, h)
	dx := (g.Marker.X - g.Solution.X) * w / short
	dy := (g.Marker.Y - g.Solution.Y) * h / short

	result.Distance = math.Hypot(dx, dy)
	result.Win = result.Distance < radius
	return result
}

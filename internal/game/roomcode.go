package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
)

const (
	// RoomCodeChars 不包含容易混淆的 0/O 與 1/I
	RoomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	RoomCodeLength = 5
	// MaxCodeAttempts 是建立房間時代碼碰撞的重試上限
	MaxCodeAttempts = 5
)

// GenerateRoomCode 產生隨機房間代碼
func GenerateRoomCode() string {
	code := make([]byte, RoomCodeLength)
	for i := range RoomCodeLength {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(RoomCodeChars))))
		if err != nil {
			code[i] = RoomCodeChars[rand.Intn(len(RoomCodeChars))]
			continue
		}
		code[i] = RoomCodeChars[n.Int64()]
	}
	return string(code)
}

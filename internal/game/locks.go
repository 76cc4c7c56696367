package game

import "party_quiz/internal/models"

// SweepExpiredLocks 清除目前遊戲中所有已過期的鎖
func SweepExpiredLocks(env Env, room *models.Room) {
	now := env.NowMs()
	for itemID, lock := range room.Game.Locks() {
		if lock != nil && lock.ExpiresAt <= now {
			room.Game.Locks()[itemID] = nil
		}
	}
}

// heldByOther 判斷物件是否被其他玩家以未過期的鎖保留
func heldByOther(env Env, lock *models.Lock, playerID string) bool {
	return lock != nil && lock.By != playerID && lock.ExpiresAt > env.NowMs()
}

// Reserve 為玩家保留物件 LockTTL，已持有的鎖會被延長
func Reserve(env Env, room *models.Room, category models.Category, playerID, itemID string) error {
	SweepExpiredLocks(env, room)
	if room.Phase != models.PhaseInRound || room.Locked {
		return ErrLocked
	}
	if err := requireCategory(room, category); err != nil {
		return err
	}

	locks := room.Game.Locks()
	if _, ok := locks[itemID]; !ok {
		return ErrBadItem
	}
	if heldByOther(env, locks[itemID], playerID) {
		return ErrAlreadyLocked
	}

	locks[itemID] = &models.Lock{By: playerID, ExpiresAt: env.Now.Add(LockTTL).UnixMilli()}
	return nil
}

// Release 由持有者或主持人釋放鎖，其他情況不做任何事並回傳 false
func Release(room *models.Room, category models.Category, playerID, itemID string) bool {
	if !hasGame(room, category) {
		return false
	}

	locks := room.Game.Locks()
	lock := locks[itemID]
	if lock == nil {
		return false
	}
	if lock.By != playerID && !IsHost(room, playerID) {
		return false
	}
	locks[itemID] = nil
	return true
}

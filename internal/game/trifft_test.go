package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party_quiz/internal/models"
)

func TestNewTrifft(t *testing.T) {
	t.Parallel()
	g, err := newTrifft(mustRaw(t, trifftRound()))
	require.NoError(t, err)

	assert.Equal(t, "Kann fliegen", g.Thesis)
	assert.Equal(t, []string{"a", "b", "it_2"}, []string{g.Items[0].ID, g.Items[1].ID, g.Items[2].ID})
	for _, it := range g.Items {
		assert.Equal(t, models.ZonePool, g.Placements[it.ID])
		assert.Equal(t, models.MarkNeutral, g.Statuses[it.ID])
		assert.Contains(t, g.Locks, it.ID)
	}

	_, err = newTrifft([]byte(`{"items": 3}`))
	assert.ErrorIs(t, err, ErrBadRound)
}

func TestTrifftPlace(t *testing.T) {
	t.Parallel()
	env := testEnv(baseTime)
	room := newRoom("host", "anna", "ben")
	startRound(t, env, room, models.CategoryTrifft, trifftRound())

	assert.ErrorIs(t, TrifftPlace(env, room, "anna", "a", "oben"), ErrBadZone)
	assert.ErrorIs(t, TrifftPlace(env, room, "anna", "zzz", models.ZoneZu), ErrBadItem)

	require.NoError(t, Reserve(env, room, models.CategoryTrifft, "ben", "a"))
	assert.ErrorIs(t, TrifftPlace(env, room, "anna", "a", models.ZoneZu), ErrNotOwner)

	require.NoError(t, TrifftPlace(env, room, "ben", "a", models.ZoneZu))
	assert.Equal(t, models.ZoneZu, room.Game.Trifft.Placements["a"])
	assert.Nil(t, room.Game.Trifft.Locks["a"])
	require.Len(t, room.Activity, 1)
	assert.Equal(t, "ben legt Adler zu „Trifft zu“", room.Activity[0].Text)

	require.NoError(t, TrifftPlace(env, room, "anna", "b", models.ZoneNicht))
	assert.Equal(t, "anna legt Biber zu „Trifft nicht zu“", room.Activity[0].Text)

	require.NoError(t, TrifftPlace(env, room, "anna", "a", models.ZonePool))
	assert.Len(t, room.Activity, 2)

	room.Locked = true
	assert.ErrorIs(t, TrifftPlace(env, room, "anna", "a", models.ZoneZu), ErrLocked)
}

func TestTrifftMark(t *testing.T) {
	t.Parallel()
	env := testEnv(baseTime)
	room := newRoom("host", "anna")
	startRound(t, env, room, models.CategoryTrifft, trifftRound())

	assert.ErrorIs(t, TrifftMark(room, "host", "a", models.MarkCorrect), ErrNotLocked)
	room.Locked = true
	assert.ErrorIs(t, TrifftMark(room, "anna", "a", models.MarkCorrect), ErrNotHost)
	assert.ErrorIs(t, TrifftMark(room, "host", "a", "yes"), ErrBadStatus)
	assert.ErrorIs(t, TrifftMark(room, "host", "zzz", models.MarkCorrect), ErrBadItem)

	// 主持人可以標記被其他玩家鎖住的物件
	room.Game.Trifft.Locks["a"] = &models.Lock{By: "anna", ExpiresAt: baseTime.Add(LockTTL).UnixMilli()}
	require.NoError(t, TrifftMark(room, "host", "a", models.MarkCorrect))
	assert.Equal(t, models.MarkCorrect, room.Game.Trifft.Statuses["a"])
}

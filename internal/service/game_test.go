package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"party_quiz/internal/game"
	"party_quiz/internal/models"
	"party_quiz/internal/repository"
	repomodels "party_quiz/internal/repository/models"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	repos := repository.NewMemoryRepositories()
	err := repos.Round.Upsert(context.Background(), []repomodels.Round{
		{ID: "list-1", Category: "aufzaehlen", Name: "Starter", Data: datatypes.JSON(`{"question":"Nenne Starter","rows":1,"cols":2}`)},
		{ID: "fehler-1", Category: "fehler", Name: "Bild", Data: datatypes.JSON(`{"errorImageUrl":"a.png","correctImageUrl":"b.png","solution":{"x":0.5,"y":0.5,"r":0.1}}`)},
	})
	require.NoError(t, err)
	return NewServices(repos, Options{})
}

func execute(t *testing.T, svc *Services, code, playerID, body string) (*Result, error) {
	t.Helper()
	cmd, err := DecodeCommand([]byte(body))
	require.NoError(t, err)
	return svc.Game.Execute(context.Background(), code, playerID, cmd)
}

func TestGameService_AufzaehlenRound(t *testing.T) {
	t.Parallel()
	svc := newTestServices(t)
	ctx := context.Background()

	room, err := svc.Session.Create(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = svc.Session.Join(ctx, room.Code, "bob", "Bob")
	require.NoError(t, err)

	_, err = execute(t, svc, room.Code, "bob", `{"type":"host:startRound","roundId":"list-1"}`)
	assert.ErrorIs(t, err, game.ErrNotHost)

	res, err := execute(t, svc, room.Code, "alice", `{"type":"host:startRound","roundId":"list-1"}`)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseInRound, res.Room.Phase)
	require.NotNil(t, res.Room.ActiveRound)
	assert.Equal(t, "Starter", res.Room.ActiveRound.RoundName)

	_, err = execute(t, svc, room.Code, "bob", `{"type":"aufzaehlen:add","text":"Bisasam"}`)
	require.NoError(t, err)
	_, err = execute(t, svc, room.Code, "alice", `{"type":"aufzaehlen:add","text":"Glumanda"}`)
	require.NoError(t, err)
	_, err = execute(t, svc, room.Code, "bob", `{"type":"aufzaehlen:add","text":"Schiggy"}`)
	assert.ErrorIs(t, err, game.ErrFull)

	res, err = execute(t, svc, room.Code, "alice", `{"type":"host:reveal"}`)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseReveal, res.Room.Phase)

	res, err = execute(t, svc, room.Code, "alice", `{"type":"aufzaehlen:mark","index":0,"status":"correct"}`)
	require.NoError(t, err)
	assert.Equal(t, models.MarkCorrect, res.Room.Game.Aufzaehlen.Cells[0].Status)

	res, err = execute(t, svc, room.Code, "alice", `{"type":"host:hub"}`)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseHub, res.Room.Phase)
	assert.Nil(t, res.Room.Game)
}

func TestGameService_StartRoundErrors(t *testing.T) {
	t.Parallel()
	svc := newTestServices(t)
	ctx := context.Background()

	room, err := svc.Session.Create(ctx, "alice", "Alice")
	require.NoError(t, err)

	_, err = execute(t, svc, room.Code, "alice", `{"type":"host:startRound","roundId":"missing"}`)
	assert.ErrorIs(t, err, game.ErrRoundNotFound)

	_, err = execute(t, svc, room.Code, "alice", `{"type":"host:startRound","category":"trifft","roundId":"list-1"}`)
	assert.ErrorIs(t, err, game.ErrBadCategory)

	_, err = execute(t, svc, "", "alice", `{"type":"host:lock"}`)
	assert.ErrorIs(t, err, game.ErrNoCode)

	_, err = execute(t, svc, "NOPE2", "alice", `{"type":"host:lock"}`)
	assert.ErrorIs(t, err, game.ErrRoomNotFound)
}

func TestGameService_FehlerRound(t *testing.T) {
	t.Parallel()
	svc := newTestServices(t)
	ctx := context.Background()

	room, err := svc.Session.Create(ctx, "alice", "Alice")
	require.NoError(t, err)
	_, err = execute(t, svc, room.Code, "alice", `{"type":"host:startRound","category":"fehler","roundId":"fehler-1"}`)
	require.NoError(t, err)

	res, err := execute(t, svc, room.Code, "alice", `{"type":"fehler:setImageSize","w":800,"h":600}`)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	// 尺寸幾乎相同時不寫入
	res, err = execute(t, svc, room.Code, "alice", `{"type":"fehler:setImageSize","w":800.2,"h":600}`)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	_, err = execute(t, svc, room.Code, "alice", `{"type":"fehler:setMarker","x":0.52,"y":0.5}`)
	require.NoError(t, err)

	res, err = execute(t, svc, room.Code, "alice", `{"type":"host:reveal"}`)
	require.NoError(t, err)
	require.NotNil(t, res.Room.Game.Fehler.Result)
	assert.True(t, res.Room.Game.Fehler.Result.Win)
}

func TestRoundService(t *testing.T) {
	t.Parallel()
	svc := newTestServices(t)
	ctx := context.Background()

	index, err := svc.Round.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.RoundSummary{{ID: "list-1", Name: "Starter"}}, index[models.CategoryAufzaehlen])
	assert.Equal(t, []models.RoundSummary{{ID: "fehler-1", Name: "Bild"}}, index[models.CategoryFehler])

	round, err := svc.Round.Get(ctx, "list-1")
	require.NoError(t, err)
	assert.Equal(t, models.CategoryAufzaehlen, round.Category)
	assert.JSONEq(t, `{"question":"Nenne Starter","rows":1,"cols":2}`, string(round.Data))

	_, err = svc.Round.Get(ctx, "missing")
	assert.ErrorIs(t, err, game.ErrRoundNotFound)
}

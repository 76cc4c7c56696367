package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"party_quiz/internal/models"
)

func faktenRound() map[string]any {
	return map[string]any{
		"prompt": "Welches Pokémon?",
		"pokemon": []map[string]any{
			{"id": "pika", "name": "Pikachu"},
			{"id": "glu", "name": "Glumanda"},
		},
		"facts": []map[string]any{
			{"id": "f1", "text": "Ist gelb", "appliesToPokemonIds": []string{"pika"}},
			{"id": "f2", "text": "Hat einen Schweif", "appliesToPokemonIds": []string{"pika", "glu"}},
			{"text": "Typ Elektro"},
		},
		"solutionPokemonId": "pika",
	}
}

// faktenInSabotage 建立已指定 saboteur 的 Fakten 回合
func faktenInSabotage(t *testing.T) (Env, *models.Room) {
	t.Helper()
	env := testEnv(baseTime)
	room := newRoom("host", "sabo", "anna")
	startRound(t, env, room, models.CategoryFakten, faktenRound())
	require.NoError(t, SelectSaboteur(room, "host", "sabo"))
	return env, room
}

func factIDs(facts []models.Fact) []string {
	ids := make([]string, 0, len(facts))
	for _, f := range facts {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestNewFakten(t *testing.T) {
	t.Parallel()
	env := testEnv(baseTime)
	env.Shuffle = reverseShuffle

	g, err := newFakten(env, mustRaw(t, faktenRound()))
	require.NoError(t, err)

	assert.Equal(t, models.StagePickSaboteur, g.Stage)
	assert.Equal(t, []string{"f_2", "f2", "f1"}, factIDs(g.Facts))
	assert.Nil(t, g.Facts[0].AppliesToPokemonIDs)
	assert.Equal(t, "pika", g.SolutionPokemonID)
	assert.False(t, g.Sabotage.ActionUsed)
}

func TestSelectSaboteur(t *testing.T) {
	t.Parallel()
	env := testEnv(baseTime)
	room := newRoom("host", "sabo")
	startRound(t, env, room, models.CategoryFakten, faktenRound())

	assert.ErrorIs(t, SelectSaboteur(room, "sabo", "sabo"), ErrNotHost)
	assert.ErrorIs(t, SelectSaboteur(room, "host", "ghost"), ErrBadPlayer)
	require.NoError(t, SelectSaboteur(room, "host", "sabo"))

	g := room.Game.Fakten
	assert.Equal(t, models.StageSabotage, g.Stage)
	assert.Equal(t, "sabo", g.SaboteurID)
	assert.ErrorIs(t, SelectSaboteur(room, "host", "sabo"), ErrBadStage)
}

func TestSabotage_SingleActionRule(t *testing.T) {
	t.Parallel()
	env, room := faktenInSabotage(t)

	require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageDelete, TargetFactID: "f1"}))
	assert.ErrorIs(t,
		ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageAdd, Text: "Kann fliegen"}),
		ErrAlreadyUsed)

	require.NoError(t, UndoSabotage(room, "sabo"))
	require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageAdd, Text: "Kann fliegen"}))
}

func TestSabotage_Actions(t *testing.T) {
	t.Parallel()

	t.Run("delete", func(t *testing.T) {
		env, room := faktenInSabotage(t)
		require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageDelete, TargetFactID: "f2"}))

		g := room.Game.Fakten
		assert.Equal(t, []string{"f1", "f_2"}, factIDs(g.Facts))
		assert.Len(t, g.Sabotage.SnapshotFacts, 3)
		assert.Equal(t, models.SabotageDelete, g.Sabotage.ActionType)
		assert.Equal(t, 2, *g.Sabotage.Detail.Index)
		assert.Equal(t, "Hat einen Schweif", *g.Sabotage.Detail.OldText)
		assert.Nil(t, g.Sabotage.Detail.NewText)
	})

	t.Run("edit clears the solution mapping", func(t *testing.T) {
		env, room := faktenInSabotage(t)
		require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{
			Action: models.SabotageEdit, TargetFactID: "f1", Text: "  Ist blau  ",
		}))

		g := room.Game.Fakten
		assert.Equal(t, "Ist blau", g.Facts[0].Text)
		assert.Nil(t, g.Facts[0].AppliesToPokemonIDs)
		assert.Equal(t, []string{"pika"}, g.Sabotage.SnapshotFacts[0].AppliesToPokemonIDs)
		assert.Equal(t, "Ist gelb", *g.Sabotage.Detail.OldText)
		assert.Equal(t, "Ist blau", *g.Sabotage.Detail.NewText)
	})

	t.Run("add", func(t *testing.T) {
		env, room := faktenInSabotage(t)
		require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{
			Action: models.SabotageAdd, Text: strings.Repeat("x", 300),
		}))

		g := room.Game.Fakten
		require.Len(t, g.Facts, 4)
		added := g.Facts[3]
		assert.True(t, strings.HasPrefix(added.ID, "fact_"))
		assert.Len(t, added.Text, 220)
		assert.Equal(t, 4, *g.Sabotage.Detail.Index)
	})

	t.Run("validation", func(t *testing.T) {
		env, room := faktenInSabotage(t)
		assert.ErrorIs(t, ApplySabotage(env, room, "anna", SabotageInput{Action: models.SabotageAdd, Text: "x"}), ErrNotSaboteur)
		assert.ErrorIs(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: "swap"}), ErrBadAction)
		assert.ErrorIs(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageDelete, TargetFactID: "nope"}), ErrBadTarget)
		assert.ErrorIs(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageEdit, TargetFactID: "f1", Text: " "}), ErrEmpty)
		assert.ErrorIs(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageAdd}), ErrEmpty)
		assert.False(t, room.Game.Fakten.Sabotage.ActionUsed)
		assert.Len(t, room.Game.Fakten.Facts, 3)
	})
}

func TestSabotage_UndoAndReady(t *testing.T) {
	t.Parallel()
	env, room := faktenInSabotage(t)
	g := room.Game.Fakten

	assert.ErrorIs(t, UndoSabotage(room, "sabo"), ErrNoAction)
	assert.ErrorIs(t, HostUndoSabotage(room, "host"), ErrNoAction)
	assert.ErrorIs(t, SaboteurReady(room, "sabo"), ErrNoAction)

	require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageDelete, TargetFactID: "f1"}))
	assert.ErrorIs(t, UndoSabotage(room, "anna"), ErrNotSaboteur)
	assert.ErrorIs(t, HostUndoSabotage(room, "anna"), ErrNotHost)
	assert.ErrorIs(t, SaboteurReady(room, "anna"), ErrNotSaboteur)

	require.NoError(t, SaboteurReady(room, "sabo"))
	assert.True(t, g.SaboteurReady)

	require.NoError(t, HostUndoSabotage(room, "host"))
	assert.Equal(t, []string{"f1", "f2", "f_2"}, factIDs(g.Facts))
	assert.False(t, g.SaboteurReady)
	assert.Equal(t, models.Sabotage{}, g.Sabotage)
}

func TestReleaseFactsAndPick(t *testing.T) {
	t.Parallel()
	env, room := faktenInSabotage(t)
	g := room.Game.Fakten

	assert.ErrorIs(t, ReleaseFacts(env, room, "host"), ErrNotReady)
	assert.ErrorIs(t, PickPokemon(room, "pika"), ErrBadStage)

	require.NoError(t, ApplySabotage(env, room, "sabo", SabotageInput{Action: models.SabotageEdit, TargetFactID: "f2", Text: "Hat Flügel"}))
	require.NoError(t, SaboteurReady(room, "sabo"))
	assert.ErrorIs(t, ReleaseFacts(env, room, "sabo"), ErrNotHost)
	require.NoError(t, ReleaseFacts(env, room, "host"))

	assert.Equal(t, models.StageLive, g.Stage)
	assert.Equal(t, []string{"Ist gelb", "Hat Flügel", "Typ Elektro"}, g.FactsText)
	assert.True(t, strings.HasPrefix(g.FactsRevision, "rev_"))

	assert.ErrorIs(t, PickPokemon(room, "mew"), ErrBadPokemon)
	require.NoError(t, PickPokemon(room, "pika"))
	assert.Equal(t, "pika", g.TeamPickPokemonID)
	require.NoError(t, PickPokemon(room, "glu"))
	assert.Equal(t, "glu", g.TeamPickPokemonID)
	require.NoError(t, PickPokemon(room, "glu"))
	assert.Empty(t, g.TeamPickPokemonID)

	require.NoError(t, SetLocked(room, "host", true))
	assert.ErrorIs(t, PickPokemon(room, "pika"), ErrLocked)
	require.NoError(t, Reveal(room, "host"))
}

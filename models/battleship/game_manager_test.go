package battleship

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGameManagerCreateGame(t *testing.T) {
	bgm, err := NewBattleshipGameManager(zap.NewNop(), WithSeed(1))
	require.NoError(t, err)

	tests := []struct {
		name             string
		mode             GameMode
		difficulty       uint8
		expectedGridSize int
		expectedErr      bool
	}{
		{name: "easy duel", mode: GameModeDuel, difficulty: GameDifficultyEasy, expectedGridSize: GridSizeEasy},
		{name: "normal bot", mode: GameModeBot, difficulty: GameDifficultyNormal, expectedGridSize: GridSizeNormal},
		{name: "hard duel", mode: GameModeDuel, difficulty: GameDifficultyHard, expectedGridSize: GridSizeHard},
		{name: "invalid difficulty", mode: GameModeDuel, difficulty: 9, expectedErr: true},
		{name: "invalid mode", mode: GameMode(5), difficulty: GameDifficultyEasy, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			game, err := bgm.CreateGame(test.mode, test.difficulty)
			if test.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.Len(t, game.Uuid(), 6)
			assert.Equal(t, test.mode, game.Mode())
			assert.Equal(t, test.expectedGridSize, game.Rules().GridSize)

			fetched, err := bgm.FetchGame(game.Uuid())
			require.NoError(t, err)
			assert.Same(t, game, fetched)
		})
	}
}

func TestGameManagerWithRules(t *testing.T) {
	rules := smallRules(TurnPolicyKeepOnHit)
	bgm, err := NewBattleshipGameManager(zap.NewNop(), WithRules(rules))
	require.NoError(t, err)

	game, err := bgm.CreateGame(GameModeBot, GameDifficultyHard)
	require.NoError(t, err)
	assert.Equal(t, rules, game.Rules())

	_, err = NewBattleshipGameManager(zap.NewNop(), WithRules(Rules{GridSize: 0}))
	assert.Error(t, err)
}

func TestGameManagerTerminateGame(t *testing.T) {
	bgm, err := NewBattleshipGameManager(zap.NewNop())
	require.NoError(t, err)

	game, err := bgm.CreateGame(GameModeBot, GameDifficultyEasy)
	require.NoError(t, err)
	host := game.CreateHostPlayer("host-session")

	placements, err := RandomPlacements(game.Rules().Catalogue, game.Rules().GridSize, game.rng)
	require.NoError(t, err)
	require.NoError(t, game.SetPlayerReady(host, placements, true))
	match, err := game.Start()
	require.NoError(t, err)

	bgm.TerminateGame(game.Uuid())
	assert.Equal(t, ResultAborted, match.Result().Status)

	_, err = bgm.FetchGame(game.Uuid())
	assert.Error(t, err)

	// terminating twice is a no-op
	bgm.TerminateGame(game.Uuid())
}

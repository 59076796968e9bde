package battleship

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerr "github.com/Machurui/longship/internal/error"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	require.NoError(t, rules.Validate())
	assert.Equal(t, 10, rules.GridSize)
	assert.Equal(t, 5, rules.FleetSize())
	assert.Equal(t, 17, rules.Catalogue.TotalLength())
	assert.Equal(t, TurnPolicyAlwaysToggle, rules.TurnPolicy)
}

func TestRulesForDifficulty(t *testing.T) {
	tests := []struct {
		difficulty       uint8
		expectedGridSize int
		expectedFleet    int
	}{
		{difficulty: GameDifficultyEasy, expectedGridSize: GridSizeEasy, expectedFleet: 3},
		{difficulty: GameDifficultyNormal, expectedGridSize: GridSizeNormal, expectedFleet: 5},
		{difficulty: GameDifficultyHard, expectedGridSize: GridSizeHard, expectedFleet: 5},
	}

	for _, test := range tests {
		rules, err := RulesForDifficulty(test.difficulty)
		require.NoError(t, err)
		require.NoError(t, rules.Validate())
		assert.Equal(t, test.expectedGridSize, rules.GridSize)
		assert.Equal(t, test.expectedFleet, rules.FleetSize())
	}

	_, err := RulesForDifficulty(3)
	assert.Error(t, err)
}

func TestParseRules(t *testing.T) {
	data := []byte(`
grid_size: 6
turn_policy: keep_on_hit
ships:
  cruiser: 3
  destroyer: 2
`)

	rules, err := ParseRules(data)
	require.NoError(t, err)

	assert.Equal(t, 6, rules.GridSize)
	assert.Equal(t, TurnPolicyKeepOnHit, rules.TurnPolicy)
	assert.Equal(t, Catalogue{ShipCruiser: 3, ShipDestroyer: 2}, rules.Catalogue)
}

func TestParseRulesKeepsDefaults(t *testing.T) {
	rules, err := ParseRules([]byte(`turn_policy: always_toggle`))
	require.NoError(t, err)
	assert.Equal(t, DefaultRules(), rules)
}

func TestParseRulesInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unknown policy", data: "turn_policy: sometimes"},
		{name: "unknown ship", data: "ships: {canoe: 2}"},
		{name: "zero length ship", data: "ships: {destroyer: 0}"},
		{name: "ship longer than grid", data: "grid_size: 4\nships: {carrier: 5}"},
		{name: "fleet does not fit", data: "grid_size: 2\nships: {destroyer: 2, cruiser: 2, submarine: 1}"},
		{name: "negative grid", data: "grid_size: -1"},
		{name: "not yaml", data: "grid_size: [1"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseRules([]byte(test.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, cerr.ErrInvalidRules))
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid_size: 12\n"), 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 12, rules.GridSize)
	assert.Equal(t, DefaultCatalogue(), rules.Catalogue)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

package battleship

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	cerr "github.com/Machurui/longship/internal/error"
)

const (
	GameDifficultyEasy uint8 = iota
	GameDifficultyNormal
	GameDifficultyHard
)

const (
	GridSizeEasy   int = 8
	GridSizeNormal int = 10
	GridSizeHard   int = 9
)

// TurnPolicy decides who attacks after an answer is resolved.
type TurnPolicy uint8

const (
	// The turn passes to the other side after every answer.
	TurnPolicyAlwaysToggle TurnPolicy = iota
	// The attacker keeps the turn after a hit.
	TurnPolicyKeepOnHit
)

var turnPolicyNames = map[TurnPolicy]string{
	TurnPolicyAlwaysToggle: "always_toggle",
	TurnPolicyKeepOnHit:    "keep_on_hit",
}

func (tp TurnPolicy) String() string {
	return turnPolicyNames[tp]
}

func ParseTurnPolicy(name string) (TurnPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "always_toggle":
		return TurnPolicyAlwaysToggle, nil
	case "keep_on_hit":
		return TurnPolicyKeepOnHit, nil
	}
	return 0, fmt.Errorf("%w: unknown turn policy %q", cerr.ErrInvalidRules, name)
}

type Rules struct {
	GridSize   int
	Catalogue  Catalogue
	TurnPolicy TurnPolicy
}

func DefaultRules() Rules {
	return Rules{
		GridSize:   GridSizeNormal,
		Catalogue:  DefaultCatalogue(),
		TurnPolicy: TurnPolicyAlwaysToggle,
	}
}

func RulesForDifficulty(difficulty uint8) (Rules, error) {
	switch difficulty {
	case GameDifficultyEasy:
		return Rules{
			GridSize: GridSizeEasy,
			Catalogue: Catalogue{
				ShipBattleship: 4,
				ShipCruiser:    3,
				ShipDestroyer:  2,
			},
			TurnPolicy: TurnPolicyAlwaysToggle,
		}, nil
	case GameDifficultyNormal:
		return DefaultRules(), nil
	case GameDifficultyHard:
		rules := DefaultRules()
		rules.GridSize = GridSizeHard
		return rules, nil
	}
	return Rules{}, cerr.ErrInvalidGameDifficulty()
}

// FleetSize is the number of ships a side must lose to lose the match.
func (r Rules) FleetSize() int {
	return len(r.Catalogue)
}

func (r Rules) Validate() error {
	if r.GridSize < 1 {
		return fmt.Errorf("%w: grid size must be at least 1, got %d", cerr.ErrInvalidRules, r.GridSize)
	}
	if len(r.Catalogue) == 0 {
		return fmt.Errorf("%w: catalogue is empty", cerr.ErrInvalidRules)
	}
	for st, length := range r.Catalogue {
		if length < 1 || length > r.GridSize {
			return fmt.Errorf("%w: %s length %d does not fit a %d grid", cerr.ErrInvalidRules, st, length, r.GridSize)
		}
	}
	if r.Catalogue.TotalLength() > r.GridSize*r.GridSize {
		return fmt.Errorf("%w: fleet does not fit a %d grid", cerr.ErrInvalidRules, r.GridSize)
	}
	if _, ok := turnPolicyNames[r.TurnPolicy]; !ok {
		return fmt.Errorf("%w: unknown turn policy %d", cerr.ErrInvalidRules, r.TurnPolicy)
	}
	return nil
}

type rawYamlRules struct {
	GridSize   int            `yaml:"grid_size"`
	TurnPolicy string         `yaml:"turn_policy"`
	Ships      map[string]int `yaml:"ships"`
}

// ParseRules reads rules from YAML. Missing fields keep the defaults.
func ParseRules(data []byte) (Rules, error) {
	var raw rawYamlRules
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Rules{}, fmt.Errorf("%w: %v", cerr.ErrInvalidRules, err)
	}

	rules := DefaultRules()
	if raw.GridSize != 0 {
		rules.GridSize = raw.GridSize
	}

	tp, err := ParseTurnPolicy(raw.TurnPolicy)
	if err != nil {
		return Rules{}, err
	}
	rules.TurnPolicy = tp

	if len(raw.Ships) > 0 {
		rules.Catalogue = make(Catalogue, len(raw.Ships))
		for name, length := range raw.Ships {
			st, err := ParseShipType(name)
			if err != nil {
				return Rules{}, fmt.Errorf("%w: %v", cerr.ErrInvalidRules, err)
			}
			rules.Catalogue[st] = length
		}
	}

	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("unable to read rules file: %w", err)
	}
	return ParseRules(data)
}

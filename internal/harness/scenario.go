package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/duskfall/internal/game"
	"github.com/roach88/duskfall/internal/settings"
)

// Scenario is a scripted game. The flow feeds inputs to a fresh game and
// the assertions check the transcript and final outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Players are the names of the seats, in index order.
	Players []string `yaml:"players"`

	// Settings are inline game settings. Exactly one of Settings and
	// SettingsFile must be set.
	Settings *settings.File `yaml:"settings,omitempty"`

	// SettingsFile is a settings document, relative to the scenario file.
	SettingsFile string `yaml:"settings_file,omitempty"`

	// MessageQuota overrides the per-phase message quota. Zero keeps the
	// engine default.
	MessageQuota int `yaml:"message_quota,omitempty"`

	// Flow is the list of steps fed to the game in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the transcript and outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one scripted input. Exactly one of Send, Advance, Tick and
// Connected is set.
type FlowStep struct {
	// Player is the acting seat for Send and Connected.
	Player int `yaml:"player"`

	// Send is a client message envelope: {type: vote, data: {player: 2}}.
	Send map[string]any `yaml:"send,omitempty"`

	// Advance ends phases until the named phase is running.
	Advance string `yaml:"advance,omitempty"`

	// Tick advances the phase timer by a duration such as "30s".
	Tick string `yaml:"tick,omitempty"`

	// Connected marks the player as connected or disconnected.
	Connected *bool `yaml:"connected,omitempty"`

	// Expect is "accepted" or "rejected" and only applies to Send.
	Expect string `yaml:"expect,omitempty"`
}

// Expect values.
const (
	ExpectAccepted = "accepted"
	ExpectRejected = "rejected"
)

// Assertion validates the transcript or the final outcome.
type Assertion struct {
	// Type specifies the assertion type:
	//   - "trace_contains": a packet of type Packet with Data as a subset
	//   - "trace_order": Packets appear in this order
	//   - "trace_count": Packet appears exactly Count times
	//   - "conclusion": the game ended with Value ("none" if still running)
	//   - "player": the summary of Player matches Expect
	//   - "final_state": a row of the stats Table matches Expect
	Type string `yaml:"type"`

	// Player limits trace assertions to one seat. Required for "player".
	Player *int `yaml:"player,omitempty"`

	Packet  string         `yaml:"packet,omitempty"`
	Packets []string       `yaml:"packets,omitempty"`
	Data    map[string]any `yaml:"data,omitempty"`
	Count   int            `yaml:"count,omitempty"`
	Value   string         `yaml:"value,omitempty"`

	// Table, Where and Expect query the recorded stats (final_state).
	// Expect is also used by "player" against alive, won and role.
	Table  string         `yaml:"table,omitempty"`
	Where  map[string]any `yaml:"where,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertConclusion    = "conclusion"
	AssertPlayer        = "player"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// SettingsFile is resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if s.SettingsFile != "" && !filepath.IsAbs(s.SettingsFile) {
		s.SettingsFile = filepath.Join(filepath.Dir(path), s.SettingsFile)
	}
	if err := validateScenario(s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return s, nil
}

// ParseScenario decodes a scenario document without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &s, nil
}

// GameSettings resolves the scenario's settings against its roster.
func (s *Scenario) GameSettings() (game.Settings, error) {
	f := s.Settings
	if s.SettingsFile != "" {
		loaded, err := settings.Load(s.SettingsFile)
		if err != nil {
			return game.Settings{}, err
		}
		f = loaded
	} else if err := f.Validate(); err != nil {
		return game.Settings{}, err
	}
	return f.GameFor(len(s.Players))
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Players) == 0 {
		return fmt.Errorf("players list is required and must be non-empty")
	}
	if (s.Settings == nil) == (s.SettingsFile == "") {
		return fmt.Errorf("exactly one of settings and settings_file is required")
	}
	if s.SettingsFile != "" {
		if _, err := os.Stat(s.SettingsFile); os.IsNotExist(err) {
			return fmt.Errorf("settings file not found: %s", s.SettingsFile)
		}
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, &step, len(s.Players)); err != nil {
			return err
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step *FlowStep, players int) error {
	set := 0
	for _, ok := range []bool{step.Send != nil, step.Advance != "", step.Tick != "", step.Connected != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("flow[%d]: exactly one of send, advance, tick and connected is required", index)
	}
	if step.Player < 0 || step.Player >= players {
		return fmt.Errorf("flow[%d]: player %d is not seated", index, step.Player)
	}
	if step.Advance != "" {
		if _, err := game.ParsePhaseType(step.Advance); err != nil {
			return fmt.Errorf("flow[%d]: %w", index, err)
		}
	}
	if step.Tick != "" {
		if d, err := time.ParseDuration(step.Tick); err != nil || d < 0 {
			return fmt.Errorf("flow[%d]: tick must be a non-negative duration, got %q", index, step.Tick)
		}
	}
	switch step.Expect {
	case "", ExpectAccepted, ExpectRejected:
	default:
		return fmt.Errorf("flow[%d]: expect must be %q or %q", index, ExpectAccepted, ExpectRejected)
	}
	if step.Expect != "" && step.Send == nil {
		return fmt.Errorf("flow[%d]: expect only applies to send", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Packet == "" {
			return fmt.Errorf("assertions[%d]: packet is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Packets) == 0 {
			return fmt.Errorf("assertions[%d]: packets list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Packet == "" {
			return fmt.Errorf("assertions[%d]: packet is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertConclusion:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for conclusion", index)
		}
	case AssertPlayer:
		if a.Player == nil {
			return fmt.Errorf("assertions[%d]: player is required for player", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for player", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

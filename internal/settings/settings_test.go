package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/duskfall/internal/game"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func requireCodes(t *testing.T, err error, codes ...string) *Error {
	t.Helper()
	require.Error(t, err)
	var se *Error
	require.ErrorAs(t, err, &se)
	got := make([]string, len(se.Errors))
	for i, ve := range se.Errors {
		got[i] = ve.Code
	}
	for _, c := range codes {
		assert.Contains(t, got, c)
	}
	return se
}

func TestLoad_ClassicYAML(t *testing.T) {
	f, err := Load("testdata/classic.yaml")
	require.NoError(t, err)

	s, err := f.GameFor(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), s.Seed)
	assert.False(t, s.AssignInOrder)
	require.Len(t, s.RoleList, 7)
	assert.Equal(t, game.RoleOutline{Role: game.RoleGodfather}, s.RoleList[0])
	assert.Equal(t, game.RoleOutline{Set: game.RoleSetTownInvestigative}, s.RoleList[2])
	assert.Equal(t, []game.ModifierType{game.ModifierNoWhispers, game.ModifierDeadCanChat}, s.Modifiers)
	assert.Equal(t, 90*time.Second, s.PhaseTimes.For(game.PhaseDiscussion))
	assert.Equal(t, 45*time.Second, s.PhaseTimes.For(game.PhaseNight))
	assert.Equal(t, game.DefaultPhaseTimes()[game.PhaseDusk], s.PhaseTimes.For(game.PhaseDusk))
}

func TestLoad_CUEMatchesYAML(t *testing.T) {
	fromYAML, err := Load("testdata/classic.yaml")
	require.NoError(t, err)
	fromCUE, err := Load("testdata/classic.cue")
	require.NoError(t, err)

	a, err := fromYAML.Game()
	require.NoError(t, err)
	b, err := fromCUE.Game()
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	se := requireCodes(t, err, ErrCodeRead)
	assert.Contains(t, se.Error(), "nope.yaml")
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{"not yaml", "roles: [", ErrCodeParse},
		{"unknown top-level key", "roles: [mafioso]\nplayers: 3\n", ErrCodeParse},
		{"unknown outline key", "roles:\n  - faction: town\n", ErrCodeParse},
		{"empty role list", "roles: []\n", ErrCodeSchema},
		{"negative phase time", "roles: [mafioso]\nphase_times:\n  night: -5\n", ErrCodeSchema},
		{"duplicate modifier", "roles: [mafioso]\nmodifiers: [no_chat, no_chat]\n", ErrCodeSchema},
		{"unknown role", "roles: [mafioso, wizard]\n", ErrCodeRole},
		{"unknown set", "roles:\n  - set: wizards\n", ErrCodeRoleSet},
		{"unknown modifier", "roles: [mafioso]\nmodifiers: [no_lunch]\n", ErrCodeMod},
		{"unknown phase", "roles: [mafioso]\nphase_times:\n  brunch: 10\n", ErrCodePhase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.doc))
			requireCodes(t, err, tt.code)
		})
	}
}

func TestParseYAML_ReportsLines(t *testing.T) {
	_, err := ParseYAML([]byte("roles:\n  - mafioso\n  - wizard\n"))
	se := requireCodes(t, err, ErrCodeRole)
	require.Len(t, se.Errors, 1)
	assert.Equal(t, "roles.1", se.Errors[0].Field)
	assert.Equal(t, 3, se.Errors[0].Line)
	assert.Contains(t, se.Error(), "line 3")
}

func TestParseYAML_CollectsAllErrors(t *testing.T) {
	_, err := ParseYAML([]byte("roles: [wizard, witch]\nmodifiers: [no_lunch]\n"))
	se := requireCodes(t, err, ErrCodeRole, ErrCodeMod)
	assert.Len(t, se.Errors, 3)
}

func TestParseCUE_Errors(t *testing.T) {
	_, err := ParseCUE([]byte(`roles: [{role: "mafioso"}]
seed: -1
`))
	requireCodes(t, err, ErrCodeSchema)

	_, err = ParseCUE([]byte(`roles: [`))
	requireCodes(t, err, ErrCodeParse)

	_, err = ParseCUE([]byte(`roles: [{role: "mafioso", set: "town"}]`))
	requireCodes(t, err, ErrCodeSchema)
}

func TestGameFor_PlayerCountMismatch(t *testing.T) {
	f, err := ParseYAML([]byte("roles: [mafioso, sheriff]\n"))
	require.NoError(t, err)

	_, err = f.GameFor(3)
	se := requireCodes(t, err, ErrCodeGame)
	assert.Contains(t, se.Errors[0].Message, "role list")
}

func TestFromGame_RoundTrip(t *testing.T) {
	f, err := Load("testdata/classic.yaml")
	require.NoError(t, err)
	s, err := f.Game()
	require.NoError(t, err)

	back := FromGame(s)
	require.NoError(t, back.Validate())
	again, err := back.Game()
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestOutline_JSON(t *testing.T) {
	var f File
	require.NoError(t, json.Unmarshal([]byte(`{"roles": ["mafioso", {"set": "town_protective"}]}`), &f))
	assert.Equal(t, []Outline{{Role: "mafioso"}, {Set: "town_protective"}}, f.Roles)

	err := json.Unmarshal([]byte(`{"roles": [{"rol": "mafioso"}]}`), &f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outline")
}

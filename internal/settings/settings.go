package settings

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/duskfall/internal/game"
)

//go:embed schema.cue
var schemaCUE string

// File is the on-disk form of game settings. Names are kept as written;
// Game resolves them.
type File struct {
	Roles         []Outline      `yaml:"roles" json:"roles"`
	Modifiers     []string       `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
	PhaseTimes    map[string]int `yaml:"phase_times,omitempty" json:"phase_times,omitempty"`
	Seed          uint64         `yaml:"seed,omitempty" json:"seed,omitempty"`
	AssignInOrder bool           `yaml:"assign_in_order,omitempty" json:"assign_in_order,omitempty"`
}

// Outline is one role list entry. In YAML a bare string names a role:
//
//	- mafioso
//	- set: town_protective
type Outline struct {
	Role string `yaml:"role,omitempty" json:"role,omitempty"`
	Set  string `yaml:"set,omitempty" json:"set,omitempty"`

	line int
}

// UnmarshalYAML accepts the scalar shorthand and rejects unknown keys.
func (o *Outline) UnmarshalYAML(node *yaml.Node) error {
	o.line = node.Line
	switch node.Kind {
	case yaml.ScalarNode:
		o.Role = node.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, val := node.Content[i], node.Content[i+1]
			switch key.Value {
			case "role":
				o.Role = val.Value
			case "set":
				o.Set = val.Value
			default:
				return fmt.Errorf("line %d: field %s not found in outline", key.Line, key.Value)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: outline must be a role name or a mapping", node.Line)
}

// UnmarshalJSON accepts the same string shorthand as UnmarshalYAML.
func (o *Outline) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		o.Role = name
		return nil
	}
	var v struct {
		Role string `json:"role"`
		Set  string `json:"set"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("outline: %w", err)
	}
	o.Role, o.Set = v.Role, v.Set
	return nil
}

// Load reads a settings file. Files ending in .cue are evaluated as CUE;
// anything else is decoded as YAML.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Errors: []ValidationError{{
			Field: "file", Message: err.Error(), Code: ErrCodeRead,
		}}}
	}

	var f *File
	if filepath.Ext(path) == ".cue" {
		f, err = ParseCUE(data)
	} else {
		f, err = ParseYAML(data)
	}
	var e *Error
	if errors.As(err, &e) {
		e.Path = path
	}
	return f, err
}

// ParseYAML decodes and validates a YAML settings document.
func ParseYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, &Error{Errors: []ValidationError{{
			Field: "settings", Message: err.Error(), Code: ErrCodeParse,
		}}}
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ParseCUE evaluates a CUE settings document. The document is unified with
// the schema, so it may use CUE references and defaults.
func ParseCUE(data []byte) (*File, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename("settings.cue"))
	if err := v.Err(); err != nil {
		return nil, &Error{Errors: fromCUE(err, ErrCodeParse)}
	}
	v = schema(ctx).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, &Error{Errors: fromCUE(err, ErrCodeSchema)}
	}

	var f File
	if err := v.Decode(&f); err != nil {
		return nil, &Error{Errors: fromCUE(err, ErrCodeSchema)}
	}
	if errs := f.resolveErrors(); len(errs) > 0 {
		return nil, &Error{Errors: errs}
	}
	return &f, nil
}

func schema(ctx *cue.Context) cue.Value {
	return ctx.CompileString(schemaCUE, cue.Filename("schema.cue")).LookupPath(cue.ParsePath("#Settings"))
}

// Validate checks f against the schema and resolves every name.
// Returns *Error listing every problem, or nil.
func (f *File) Validate() error {
	ctx := cuecontext.New()
	v := schema(ctx).Unify(ctx.Encode(f))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return &Error{Errors: fromCUE(err, ErrCodeSchema)}
	}
	if errs := f.resolveErrors(); len(errs) > 0 {
		return &Error{Errors: errs}
	}
	return nil
}

func (f *File) resolveErrors() []ValidationError {
	_, errs := f.resolve()
	return errs
}

// Game converts f into game settings. Call Validate first; Game reports
// only the first name it cannot resolve.
func (f *File) Game() (game.Settings, error) {
	s, errs := f.resolve()
	if len(errs) > 0 {
		return game.Settings{}, &Error{Errors: errs}
	}
	return s, nil
}

// GameFor converts f and checks it against a roster of playerCount players.
func (f *File) GameFor(playerCount int) (game.Settings, error) {
	s, err := f.Game()
	if err != nil {
		return game.Settings{}, err
	}
	if err := s.Validate(playerCount); err != nil {
		return game.Settings{}, &Error{Errors: []ValidationError{{
			Field: "roles", Message: err.Error(), Code: ErrCodeGame,
		}}}
	}
	return s, nil
}

func (f *File) resolve() (game.Settings, []ValidationError) {
	var errs []ValidationError
	s := game.Settings{
		Seed:          f.Seed,
		AssignInOrder: f.AssignInOrder,
	}

	for i, o := range f.Roles {
		field := fmt.Sprintf("roles.%d", i)
		switch {
		case o.Role != "":
			r, err := game.ParseRole(o.Role)
			if err != nil {
				errs = append(errs, ValidationError{Field: field, Message: err.Error(), Code: ErrCodeRole, Line: o.line})
				continue
			}
			s.RoleList = append(s.RoleList, game.RoleOutline{Role: r})
		case o.Set != "":
			set := game.RoleSet(o.Set)
			if len(set.Roles()) == 0 {
				errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("unknown role set %q", o.Set), Code: ErrCodeRoleSet, Line: o.line})
				continue
			}
			s.RoleList = append(s.RoleList, game.RoleOutline{Set: set})
		default:
			errs = append(errs, ValidationError{Field: field, Message: "outline names neither a role nor a set", Code: ErrCodeSchema, Line: o.line})
		}
	}

	for i, name := range f.Modifiers {
		m, err := game.ParseModifier(name)
		if err != nil {
			errs = append(errs, ValidationError{Field: fmt.Sprintf("modifiers.%d", i), Message: err.Error(), Code: ErrCodeMod})
			continue
		}
		s.Modifiers = append(s.Modifiers, m)
	}

	if len(f.PhaseTimes) > 0 {
		s.PhaseTimes = game.PhaseTimes{}
		names := make([]string, 0, len(f.PhaseTimes))
		for name := range f.PhaseTimes {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			t, err := game.ParsePhaseType(name)
			if err != nil {
				errs = append(errs, ValidationError{Field: "phase_times." + name, Message: err.Error(), Code: ErrCodePhase})
				continue
			}
			s.PhaseTimes[t] = time.Duration(f.PhaseTimes[name]) * time.Second
		}
	}
	return s, errs
}

// FromGame converts game settings back into their file form.
func FromGame(s game.Settings) File {
	f := File{Seed: s.Seed, AssignInOrder: s.AssignInOrder}
	for _, o := range s.RoleList {
		if o.Role != game.RoleNone {
			f.Roles = append(f.Roles, Outline{Role: o.Role.String()})
		} else {
			f.Roles = append(f.Roles, Outline{Set: string(o.Set)})
		}
	}
	for _, m := range s.Modifiers {
		f.Modifiers = append(f.Modifiers, m.String())
	}
	if len(s.PhaseTimes) > 0 {
		f.PhaseTimes = make(map[string]int, len(s.PhaseTimes))
		for t, d := range s.PhaseTimes {
			f.PhaseTimes[t.String()] = int(d / time.Second)
		}
	}
	return f
}

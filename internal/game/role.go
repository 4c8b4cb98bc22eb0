package game

import (
	"fmt"
	"strings"
)

// Role identifies a role variant. The set is closed.
type Role uint8

const (
	RoleNone Role = iota

	// Town
	RoleSheriff
	RoleLookout
	RoleDoctor
	RoleBodyguard
	RoleEscort
	RoleTransporter
	RoleVeteran
	RoleVigilante
	RoleJailor
	RoleMayor
	RoleReporter
	RoleBouncer
	RoleAuditor

	// Mafia
	RoleGodfather
	RoleMafioso
	RoleConsort
	RoleFramer
	RoleJanitor
	RoleKidnapper

	// Cult
	RoleApostle
	RoleZealot

	// Neutral
	RoleJester
	RoleAmnesiac

	// Fiends
	RoleArsonist
	RolePuppeteer

	roleCount
)

// Faction is the broad alignment of a role.
type Faction uint8

const (
	FactionTown Faction = iota + 1
	FactionMafia
	FactionCult
	FactionNeutral
	FactionFiends
)

func (f Faction) String() string {
	switch f {
	case FactionTown:
		return "town"
	case FactionMafia:
		return "mafia"
	case FactionCult:
		return "cult"
	case FactionNeutral:
		return "neutral"
	case FactionFiends:
		return "fiends"
	}
	return "unknown"
}

// RoleInfo is the static description of a role.
type RoleInfo struct {
	Name     string
	Faction  Faction
	Defense  DefensePower
	MaxCount int // 0 means unlimited
	Groups   []InsiderGroup

	// KeepsGameRunning roles must agree on a conclusion before the game ends.
	KeepsGameRunning bool
	RoleblockImmune  bool
	Suspicious       bool
	ActsWhenDead     bool
}

var roleTable = [roleCount]RoleInfo{
	RoleSheriff:     {Name: "sheriff", Faction: FactionTown, KeepsGameRunning: true},
	RoleLookout:     {Name: "lookout", Faction: FactionTown, KeepsGameRunning: true},
	RoleDoctor:      {Name: "doctor", Faction: FactionTown, KeepsGameRunning: true},
	RoleBodyguard:   {Name: "bodyguard", Faction: FactionTown, KeepsGameRunning: true},
	RoleEscort:      {Name: "escort", Faction: FactionTown, KeepsGameRunning: true},
	RoleTransporter: {Name: "transporter", Faction: FactionTown, MaxCount: 1, KeepsGameRunning: true, RoleblockImmune: true},
	RoleVeteran:     {Name: "veteran", Faction: FactionTown, MaxCount: 1, KeepsGameRunning: true, RoleblockImmune: true},
	RoleVigilante:   {Name: "vigilante", Faction: FactionTown, KeepsGameRunning: true},
	RoleJailor:      {Name: "jailor", Faction: FactionTown, MaxCount: 1, KeepsGameRunning: true, RoleblockImmune: true},
	RoleMayor:       {Name: "mayor", Faction: FactionTown, MaxCount: 1, KeepsGameRunning: true},
	RoleReporter:    {Name: "reporter", Faction: FactionTown, MaxCount: 1, KeepsGameRunning: true},
	RoleBouncer:     {Name: "bouncer", Faction: FactionTown, MaxCount: 1, KeepsGameRunning: true},
	RoleAuditor:     {Name: "auditor", Faction: FactionTown, KeepsGameRunning: true},

	RoleGodfather: {Name: "godfather", Faction: FactionMafia, Defense: DefenseArmor, MaxCount: 1, Groups: []InsiderGroup{InsiderMafia}, KeepsGameRunning: true},
	RoleMafioso:   {Name: "mafioso", Faction: FactionMafia, MaxCount: 1, Groups: []InsiderGroup{InsiderMafia}, KeepsGameRunning: true, Suspicious: true},
	RoleConsort:   {Name: "consort", Faction: FactionMafia, Groups: []InsiderGroup{InsiderMafia}, KeepsGameRunning: true, Suspicious: true},
	RoleFramer:    {Name: "framer", Faction: FactionMafia, Groups: []InsiderGroup{InsiderMafia}, KeepsGameRunning: true, Suspicious: true},
	RoleJanitor:   {Name: "janitor", Faction: FactionMafia, Groups: []InsiderGroup{InsiderMafia}, KeepsGameRunning: true, Suspicious: true},
	RoleKidnapper: {Name: "kidnapper", Faction: FactionMafia, MaxCount: 1, Groups: []InsiderGroup{InsiderMafia}, KeepsGameRunning: true, RoleblockImmune: true, Suspicious: true},

	RoleApostle: {Name: "apostle", Faction: FactionCult, MaxCount: 1, Groups: []InsiderGroup{InsiderCult}, KeepsGameRunning: true, Suspicious: true},
	RoleZealot:  {Name: "zealot", Faction: FactionCult, Groups: []InsiderGroup{InsiderCult}, KeepsGameRunning: true},

	RoleJester:   {Name: "jester", Faction: FactionNeutral, ActsWhenDead: true},
	RoleAmnesiac: {Name: "amnesiac", Faction: FactionNeutral},

	RoleArsonist:  {Name: "arsonist", Faction: FactionFiends, Defense: DefenseArmor, KeepsGameRunning: true, Suspicious: true},
	RolePuppeteer: {Name: "puppeteer", Faction: FactionFiends, Defense: DefenseArmor, MaxCount: 1, Groups: []InsiderGroup{InsiderPuppeteer}, KeepsGameRunning: true, Suspicious: true},
}

// Info returns the static description of the role. RoleNone and unknown
// values return the zero RoleInfo.
func (r Role) Info() RoleInfo {
	if r >= roleCount {
		return RoleInfo{}
	}
	return roleTable[r]
}

func (r Role) String() string {
	if name := r.Info().Name; name != "" {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Faction is shorthand for r.Info().Faction.
func (r Role) Faction() Faction { return r.Info().Faction }

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// AllRoles returns every role in declaration order.
func AllRoles() []Role {
	out := make([]Role, 0, roleCount-1)
	for r := RoleNone + 1; r < roleCount; r++ {
		out = append(out, r)
	}
	return out
}

// ParseRole maps a role name (case-insensitive) to its Role.
func ParseRole(name string) (Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range AllRoles() {
		if r.Info().Name == name {
			return r, nil
		}
	}
	return RoleNone, fmt.Errorf("unknown role %q", name)
}

// defaultWinCondition is the win condition a player receives with a role.
func (r Role) defaultWinCondition() WinCondition {
	switch r {
	case RoleJester:
		return RoleStateWins()
	case RoleAmnesiac:
		return WinCondition{}
	}
	switch r.Faction() {
	case FactionTown:
		return WinIfAny(ConclusionTown)
	case FactionMafia:
		return WinIfAny(ConclusionMafia)
	case FactionCult:
		return WinIfAny(ConclusionCult)
	case FactionFiends:
		return WinIfAny(ConclusionFiends)
	}
	return WinCondition{}
}

// RoleSet is a named group of roles used by role-list outlines.
type RoleSet string

const (
	RoleSetAny               RoleSet = "any"
	RoleSetTown              RoleSet = "town"
	RoleSetTownInvestigative RoleSet = "town_investigative"
	RoleSetTownProtective    RoleSet = "town_protective"
	RoleSetTownKilling       RoleSet = "town_killing"
	RoleSetTownSupport       RoleSet = "town_support"
	RoleSetMafia             RoleSet = "mafia"
	RoleSetMafiaSupport      RoleSet = "mafia_support"
	RoleSetCult              RoleSet = "cult"
	RoleSetNeutral           RoleSet = "neutral"
	RoleSetFiends            RoleSet = "fiends"
)

// Roles lists the members of the set in declaration order.
func (s RoleSet) Roles() []Role {
	switch s {
	case RoleSetAny:
		return AllRoles()
	case RoleSetTownInvestigative:
		return []Role{RoleSheriff, RoleLookout, RoleAuditor}
	case RoleSetTownProtective:
		return []Role{RoleDoctor, RoleBodyguard}
	case RoleSetTownKilling:
		return []Role{RoleVeteran, RoleVigilante, RoleJailor}
	case RoleSetTownSupport:
		return []Role{RoleEscort, RoleTransporter, RoleMayor, RoleReporter, RoleBouncer}
	case RoleSetMafiaSupport:
		return []Role{RoleConsort, RoleFramer, RoleJanitor, RoleKidnapper}
	case RoleSetCult:
		return []Role{RoleApostle, RoleZealot}
	}
	var faction Faction
	switch s {
	case RoleSetTown:
		faction = FactionTown
	case RoleSetMafia:
		faction = FactionMafia
	case RoleSetNeutral:
		faction = FactionNeutral
	case RoleSetFiends:
		faction = FactionFiends
	default:
		return nil
	}
	var out []Role
	for _, r := range AllRoles() {
		if r.Faction() == faction {
			out = append(out, r)
		}
	}
	return out
}

// RoleOutline is one entry of the role list: either a concrete role or a
// role set to draw from.
type RoleOutline struct {
	Role Role    `yaml:"role,omitempty" json:"role,omitempty"`
	Set  RoleSet `yaml:"set,omitempty" json:"set,omitempty"`
}

// Candidates returns the roles the outline may resolve to.
func (o RoleOutline) Candidates() []Role {
	if o.Role != RoleNone {
		return []Role{o.Role}
	}
	return o.Set.Roles()
}

func (o RoleOutline) String() string {
	if o.Role != RoleNone {
		return o.Role.String()
	}
	return string(o.Set)
}

package game

import "slices"

type GraveRoleKind uint8

const (
	GraveRoleRole GraveRoleKind = iota
	GraveRoleCleaned
	GraveRoleStoned
)

// GraveRole is the role shown on a grave.
type GraveRole struct {
	Kind GraveRoleKind `json:"kind"`
	Role Role          `json:"role,omitempty"`
}

type DeathCauseKind uint8

const (
	DeathCauseNone DeathCauseKind = iota
	DeathCauseLynching
	DeathCauseKillers
	DeathCauseBrokenHeart
)

type DeathCause struct {
	Kind    DeathCauseKind `json:"kind"`
	Killers []GraveKiller  `json:"killers,omitempty"`
}

type GraveKillerKind uint8

const (
	KillerMafia GraveKillerKind = iota
	KillerCult
	KillerSuicide
	KillerPitchfork
	KillerRole
	KillerRoleSet
)

// GraveKiller names one party responsible for a night death.
type GraveKiller struct {
	Kind GraveKillerKind `json:"kind"`
	Role Role            `json:"role,omitempty"`
	Set  RoleSet         `json:"set,omitempty"`
}

type GravePhase uint8

const (
	GravePhaseDay GravePhase = iota
	GravePhaseNight
)

// Grave is the permanent record of a death.
type Grave struct {
	Player     PlayerIndex `json:"player"`
	Role       GraveRole   `json:"role"`
	DeathCause DeathCause  `json:"death_cause"`
	Will       string      `json:"will,omitempty"`
	Phase      GravePhase  `json:"phase"`
	DayNumber  uint8       `json:"day_number"`
}

// Graves returns every grave in creation order.
func (g *Game) Graves() []Grave {
	return slices.Clone(g.graves)
}

func (g *Game) lynchGrave(p PlayerIndex) Grave {
	return Grave{
		Player:     p,
		Role:       GraveRole{Kind: GraveRoleRole, Role: g.RoleOf(p)},
		DeathCause: DeathCause{Kind: DeathCauseLynching},
		Will:       g.Will(p),
		Phase:      GravePhaseDay,
		DayNumber:  g.day,
	}
}

func (g *Game) nightGrave(p PlayerIndex) Grave {
	night := g.player(p).night
	grave := Grave{
		Player:     p,
		Role:       GraveRole{Kind: GraveRoleRole, Role: g.RoleOf(p)},
		DeathCause: DeathCause{Kind: DeathCauseKillers, Killers: slices.Clone(night.GraveKillers)},
		Will:       g.Will(p),
		Phase:      GravePhaseNight,
		DayNumber:  g.day,
	}
	if night.GraveRole != nil {
		grave.Role = *night.GraveRole
	}
	if night.WillCleaned {
		grave.Will = ""
	}
	return grave
}

func (g *Game) brokenHeartGrave(p PlayerIndex) Grave {
	phase := GravePhaseDay
	if g.phase.Type == PhaseNight {
		phase = GravePhaseNight
	}
	return Grave{
		Player:     p,
		Role:       GraveRole{Kind: GraveRoleRole, Role: g.RoleOf(p)},
		DeathCause: DeathCause{Kind: DeathCauseBrokenHeart},
		Will:       g.Will(p),
		Phase:      phase,
		DayNumber:  g.day,
	}
}

// kill marks p dead, records its grave and fires the death event. Killing
// a dead player does nothing.
func (g *Game) kill(p PlayerIndex, grave Grave) {
	pl := g.player(p)
	if !pl.alive {
		return
	}
	pl.alive = false
	pl.vote = nil

	grave = g.rewriteGrave(grave)
	g.graves = append(g.graves, grave)
	OnGraveAdded{Grave: grave}.Invoke(g)
	OnAnyDeath{Dead: p}.Invoke(g)
}

func graveBroadcast(g *Game, ev OnGraveAdded) {
	g.broadcast(GravePacket{Grave: ev.Grave})
	grave := ev.Grave
	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgPlayerDied, Grave: &grave})
}

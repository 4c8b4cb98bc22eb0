package game

import (
	"fmt"
	"strings"
)

// ModifierType is an optional rule variant. Modifiers observe events in the
// declaration order below.
type ModifierType uint8

const (
	ModifierObscuredGraves ModifierType = iota
	ModifierSkipDay1
	ModifierDeadCanChat
	ModifierNoAbstaining
	ModifierNoDeathCause
	ModifierRoleSetGraveKillers
	ModifierAutoGuilty
	ModifierTwoThirdsMajority
	ModifierNoTrialPhases
	ModifierNoWhispers
	ModifierNoNightChat
	ModifierNoChat
	ModifierHiddenWhispers
	ModifierScheduledNominations
	ModifierRandomLoveLinks
	modifierCount
)

var modifierNames = [modifierCount]string{
	"obscured_graves",
	"skip_day_1",
	"dead_can_chat",
	"no_abstaining",
	"no_death_cause",
	"role_set_grave_killers",
	"auto_guilty",
	"two_thirds_majority",
	"no_trial_phases",
	"no_whispers",
	"no_night_chat",
	"no_chat",
	"hidden_whispers",
	"scheduled_nominations",
	"random_love_links",
}

func (m ModifierType) String() string {
	if m < modifierCount {
		return modifierNames[m]
	}
	return fmt.Sprintf("modifier(%d)", uint8(m))
}

func (m ModifierType) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *ModifierType) UnmarshalText(text []byte) error {
	parsed, err := ParseModifier(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseModifier maps a modifier name to its ModifierType.
func ParseModifier(name string) (ModifierType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range modifierNames {
		if n == name {
			return ModifierType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modifier %q", name)
}

// AllModifiers returns every modifier in dispatch order.
func AllModifiers() []ModifierType {
	out := make([]ModifierType, modifierCount)
	for i := range out {
		out[i] = ModifierType(i)
	}
	return out
}

type modifierSet uint32

func newModifierSet(mods []ModifierType) modifierSet {
	var s modifierSet
	for _, m := range mods {
		s |= 1 << m
	}
	return s
}

func (s modifierSet) has(m ModifierType) bool {
	return s&(1<<m) != 0
}

// ModifierEnabled reports whether m is active in this game.
func (g *Game) ModifierEnabled(m ModifierType) bool {
	return g.modifiers.has(m)
}

func modifiersOnGameStart(g *Game, _ OnGameStart) {
	if g.ModifierEnabled(ModifierRandomLoveLinks) {
		g.createLoveLinks()
	}
}

// modifiersOnPhaseStart overrides the phase that just started. The new
// phase's own start runs this again, so every override target must be a
// phase no modifier overrides.
func modifiersOnPhaseStart(g *Game, ev OnPhaseStart) {
	switch ev.Phase.Type {
	case PhaseDiscussion:
		if g.ModifierEnabled(ModifierSkipDay1) && g.day == 1 {
			g.StartPhase(PhaseState{Type: PhaseDusk})
		}
	case PhaseNomination:
		if g.ModifierEnabled(ModifierNoTrialPhases) {
			g.StartPhase(PhaseState{Type: PhaseDusk})
		}
	case PhaseTestimony, PhaseJudgement:
		switch {
		case g.ModifierEnabled(ModifierNoTrialPhases):
			g.StartPhase(PhaseState{Type: PhaseDusk})
		case g.ModifierEnabled(ModifierAutoGuilty):
			g.StartPhase(PhaseState{Type: PhaseFinalWords, PlayerOnTrial: ev.Phase.PlayerOnTrial})
		}
	}
}

func modifiersOnWhisper(g *Game, _ OnWhisper, fold *WhisperFold, priority WhisperPriority) {
	if priority != WhisperCancel {
		return
	}
	if g.ModifierEnabled(ModifierNoWhispers) {
		fold.Cancelled = true
	}
	if g.ModifierEnabled(ModifierHiddenWhispers) {
		fold.HideBroadcast = true
	}
}

// rewriteGrave applies the grave modifiers to a grave being created.
func (g *Game) rewriteGrave(grave Grave) Grave {
	if g.ModifierEnabled(ModifierObscuredGraves) {
		grave.Role = GraveRole{Kind: GraveRoleStoned}
		grave.Will = ""
	}
	if g.ModifierEnabled(ModifierNoDeathCause) {
		grave.DeathCause = DeathCause{Kind: DeathCauseNone}
	}
	if g.ModifierEnabled(ModifierRoleSetGraveKillers) {
		killers := make([]GraveKiller, len(grave.DeathCause.Killers))
		for i, k := range grave.DeathCause.Killers {
			if k.Kind == KillerRole {
				k = GraveKiller{Kind: KillerRoleSet, Set: factionRoleSet(k.Role.Faction())}
			}
			killers[i] = k
		}
		grave.DeathCause.Killers = killers
	}
	return grave
}

func factionRoleSet(f Faction) RoleSet {
	switch f {
	case FactionTown:
		return RoleSetTown
	case FactionMafia:
		return RoleSetMafia
	case FactionCult:
		return RoleSetCult
	case FactionFiends:
		return RoleSetFiends
	}
	return RoleSetNeutral
}

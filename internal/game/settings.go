package game

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
)

// Settings configures one game.
type Settings struct {
	RoleList   []RoleOutline
	PhaseTimes PhaseTimes
	Modifiers  []ModifierType

	// Seed drives role assignment and every random choice the game makes.
	Seed uint64

	// AssignInOrder gives outline i to player i instead of shuffling.
	AssignInOrder bool
}

// Validate checks the settings against a roster of playerCount players.
func (s Settings) Validate(playerCount int) error {
	if playerCount < 1 || playerCount > MaxPlayers {
		return fmt.Errorf("%w: %d players, want 1..%d", ErrInvalidSettings, playerCount, MaxPlayers)
	}
	if len(s.RoleList) != playerCount {
		return fmt.Errorf("%w: role list has %d entries for %d players", ErrInvalidSettings, len(s.RoleList), playerCount)
	}
	for i, o := range s.RoleList {
		if (o.Role == RoleNone) == (o.Set == "") {
			return fmt.Errorf("%w: outline %d must name exactly one of role or set", ErrInvalidSettings, i)
		}
		if o.Role != RoleNone && o.Role >= roleCount {
			return fmt.Errorf("%w: outline %d has unknown role %d", ErrInvalidSettings, i, uint8(o.Role))
		}
		if len(o.Candidates()) == 0 {
			return fmt.Errorf("%w: outline %d has unknown set %q", ErrInvalidSettings, i, o.Set)
		}
	}
	for _, m := range s.Modifiers {
		if m >= modifierCount {
			return fmt.Errorf("%w: unknown modifier %d", ErrInvalidSettings, uint8(m))
		}
	}
	for t, d := range s.PhaseTimes {
		if d < 0 {
			return fmt.Errorf("%w: negative duration for %s", ErrInvalidSettings, t)
		}
	}
	return nil
}

// resolveRoleList picks a concrete role for every outline. Concrete roles are
// placed first so that sets only fill what the role caps leave over.
func resolveRoleList(list []RoleOutline, rng *rand.Rand) ([]Role, error) {
	out := make([]Role, len(list))
	counts := make(map[Role]int)
	for i, o := range list {
		if o.Role == RoleNone {
			continue
		}
		out[i] = o.Role
		counts[o.Role]++
		if limit := o.Role.Info().MaxCount; limit > 0 && counts[o.Role] > limit {
			return nil, fmt.Errorf("%w: more than %d %s", ErrInvalidSettings, limit, o.Role)
		}
	}
	for i, o := range list {
		if o.Role != RoleNone {
			continue
		}
		var open []Role
		for _, r := range o.Candidates() {
			if limit := r.Info().MaxCount; limit == 0 || counts[r] < limit {
				open = append(open, r)
			}
		}
		if len(open) == 0 {
			return nil, fmt.Errorf("%w: no role left for outline %d (%s)", ErrInvalidSettings, i, o)
		}
		r := open[rng.IntN(len(open))]
		out[i] = r
		counts[r]++
	}
	return out, nil
}

// seatOrder maps outline indices to players.
func seatOrder(n int, inOrder bool, rng *rand.Rand) []PlayerIndex {
	seats := make([]PlayerIndex, n)
	for i := range seats {
		seats[i] = PlayerIndex(i)
	}
	if !inOrder {
		rng.Shuffle(n, func(i, j int) { seats[i], seats[j] = seats[j], seats[i] })
	}
	return seats
}

func (s Settings) clone() Settings {
	s.RoleList = slices.Clone(s.RoleList)
	s.Modifiers = slices.Clone(s.Modifiers)
	if s.PhaseTimes == nil {
		s.PhaseTimes = DefaultPhaseTimes()
	} else {
		s.PhaseTimes = maps.Clone(s.PhaseTimes)
	}
	return s
}

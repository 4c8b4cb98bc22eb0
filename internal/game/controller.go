package game

import (
	"cmp"
	"fmt"
	"slices"
)

// ControllerKind distinguishes role-owned ability slots from the shared ones.
type ControllerKind uint8

const (
	ControllerRole ControllerKind = iota
	ControllerForfeitVote
	ControllerPitchforkVote
	ControllerSyndicateGunShoot
	ControllerSyndicateGunGive
)

func (k ControllerKind) String() string {
	switch k {
	case ControllerRole:
		return "role"
	case ControllerForfeitVote:
		return "forfeit_vote"
	case ControllerPitchforkVote:
		return "pitchfork_vote"
	case ControllerSyndicateGunShoot:
		return "syndicate_gun_shoot"
	case ControllerSyndicateGunGive:
		return "syndicate_gun_give"
	}
	return "unknown"
}

func (k ControllerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ControllerKind) UnmarshalText(text []byte) error {
	for c := ControllerRole; c <= ControllerSyndicateGunGive; c++ {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown controller kind %q", text)
}

// ControllerID identifies one ability slot. Role and Slot are only
// meaningful for ControllerRole.
type ControllerID struct {
	Kind   ControllerKind `json:"kind"`
	Player PlayerIndex    `json:"player"`
	Role   Role           `json:"role,omitempty"`
	Slot   uint8          `json:"slot,omitempty"`
}

func RoleController(p PlayerIndex, r Role, slot uint8) ControllerID {
	return ControllerID{Kind: ControllerRole, Player: p, Role: r, Slot: slot}
}

func ForfeitVoteController(p PlayerIndex) ControllerID {
	return ControllerID{Kind: ControllerForfeitVote, Player: p}
}

func PitchforkVoteController(p PlayerIndex) ControllerID {
	return ControllerID{Kind: ControllerPitchforkVote, Player: p}
}

func SyndicateGunShootController(p PlayerIndex) ControllerID {
	return ControllerID{Kind: ControllerSyndicateGunShoot, Player: p}
}

func SyndicateGunGiveController(p PlayerIndex) ControllerID {
	return ControllerID{Kind: ControllerSyndicateGunGive, Player: p}
}

func (id ControllerID) String() string {
	if id.Kind == ControllerRole {
		return fmt.Sprintf("%s/%d/%s/%d", id.Kind, id.Player, id.Role, id.Slot)
	}
	return fmt.Sprintf("%s/%d", id.Kind, id.Player)
}

func compareControllerIDs(a, b ControllerID) int {
	return cmp.Or(
		cmp.Compare(a.Player, b.Player),
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.Role, b.Role),
		cmp.Compare(a.Slot, b.Slot),
	)
}

// ControllerParameters describes one ability slot as it stands right now.
type ControllerParameters struct {
	ID        ControllerID       `json:"id"`
	Available AvailableSelection `json:"available"`
	GrayedOut bool               `json:"grayed_out"`

	// ResetOn clears the saved selection when a phase of this type starts.
	// The zero value never resets.
	ResetOn PhaseType `json:"reset_on,omitempty"`

	// DontSave controllers fire the validated event without committing.
	DontSave       bool          `json:"dont_save,omitempty"`
	AllowedPlayers []PlayerIndex `json:"allowed_players"`
}

func (c ControllerParameters) grayIf(cond bool) ControllerParameters {
	c.GrayedOut = c.GrayedOut || cond
	return c
}

// AbilityInput is a proposed selection for one slot.
type AbilityInput struct {
	ID        ControllerID
	Selection Selection
}

func (AbilityInput) clientMessage() {}

// Controllers returns every ability slot of the game, sorted by id.
func (g *Game) Controllers() []ControllerParameters {
	var out []ControllerParameters
	for _, p := range g.Players() {
		out = append(out, g.RoleState(p).Controllers(g, p)...)
		out = append(out, forfeitVoteControllers(g, p)...)
		out = append(out, pitchforkControllers(g, p)...)
		out = append(out, gunControllers(g, p)...)
	}
	slices.SortFunc(out, func(a, b ControllerParameters) int {
		return compareControllerIDs(a.ID, b.ID)
	})
	return out
}

// ControllersFor returns the slots the player may submit input for.
func (g *Game) ControllersFor(p PlayerIndex) []ControllerParameters {
	var out []ControllerParameters
	for _, c := range g.Controllers() {
		if slices.Contains(c.AllowedPlayers, p) {
			out = append(out, c)
		}
	}
	return out
}

func (g *Game) controller(id ControllerID) (ControllerParameters, bool) {
	for _, c := range g.Controllers() {
		if c.ID == id {
			return c, true
		}
	}
	return ControllerParameters{}, false
}

// selection returns the saved selection for id, or nil.
func (g *Game) selection(id ControllerID) Selection {
	return g.selections[id]
}

// Selection returns the saved selection for id.
func (g *Game) Selection(id ControllerID) (Selection, bool) {
	sel, ok := g.selections[id]
	return sel, ok
}

func (g *Game) booleanSelection(id ControllerID) bool {
	sel, ok := g.selection(id).(BooleanSelection)
	return ok && sel.Value
}

func (g *Game) playerSelection(id ControllerID) (PlayerIndex, bool) {
	sel, ok := g.selection(id).(PlayerOption)
	if !ok || sel.Player == nil {
		return 0, false
	}
	return *sel.Player, true
}

// ValidateAbilityInput checks input against the slot as it stands now
// without changing any state.
func (g *Game) ValidateAbilityInput(actor PlayerIndex, input AbilityInput) error {
	if !g.ValidPlayer(actor) {
		return rejectf("unknown player %d", actor)
	}
	if !g.started || g.ended {
		return rejectf("game is not running")
	}
	if input.Selection == nil {
		return rejectf("empty selection for %s", input.ID)
	}
	params, ok := g.controller(input.ID)
	if !ok {
		return rejectf("no controller %s", input.ID)
	}
	if !slices.Contains(params.AllowedPlayers, actor) {
		return rejectf("player %d may not use %s", actor, input.ID)
	}
	if params.GrayedOut {
		return rejectf("controller %s is unavailable", input.ID)
	}
	if !params.Available.Validate(input.Selection) {
		return rejectf("selection %s is not valid for %s", input.Selection.Kind(), input.ID)
	}
	return nil
}

// AbilityInput runs an ability input through the validation pipeline and
// commits it. A rejected input leaves the game unchanged.
func (g *Game) AbilityInput(actor PlayerIndex, input AbilityInput) error {
	OnAbilityInputReceived{Actor: actor, Input: input}.Invoke(g)

	if err := g.ValidateAbilityInput(actor, input); err != nil {
		g.reject(actor, err)
		return err
	}
	params, _ := g.controller(input.ID)
	if !params.DontSave {
		g.saveSelection(input.ID, input.Selection)
	}
	OnValidatedAbilityInputReceived{Actor: actor, Input: input}.Invoke(g)
	return nil
}

func (g *Game) saveSelection(id ControllerID, sel Selection) {
	if old, ok := g.selections[id]; ok && selectionsEqual(old, sel) {
		return
	}
	g.selections[id] = sel
	OnControllerSelectionChanged{ID: id}.Invoke(g)
}

func (g *Game) clearSelection(id ControllerID) {
	if _, ok := g.selections[id]; !ok {
		return
	}
	delete(g.selections, id)
	OnControllerSelectionChanged{ID: id}.Invoke(g)
}

func logAbilityInput(g *Game, ev OnAbilityInputReceived) {
	g.log.Debug().
		Uint8("actor", uint8(ev.Actor)).
		Str("controller", ev.Input.ID.String()).
		Msg("ability input")
}

// controllersOnPhaseStart drops saved selections whose slot disappeared,
// resets on this phase, or no longer validates.
func controllersOnPhaseStart(g *Game, ev OnPhaseStart) {
	ids := make([]ControllerID, 0, len(g.selections))
	for id := range g.selections {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareControllerIDs)

	params := make(map[ControllerID]ControllerParameters)
	for _, c := range g.Controllers() {
		params[c.ID] = c
	}
	for _, id := range ids {
		c, ok := params[id]
		if !ok || c.ResetOn == ev.Phase.Type || !c.Available.Validate(g.selections[id]) {
			g.clearSelection(id)
		}
	}
}

func controllersOnSelectionChanged(g *Game, ev OnControllerSelectionChanged) {
	g.send(ev.ID.Player, SelectionPacket{ID: ev.ID, Selection: g.selections[ev.ID]})
}

// nightPlayerController is the common single-target night ability.
func nightPlayerController(g *Game, actor PlayerIndex, id ControllerID, canSelf, canSelectInsiders bool) ControllerParameters {
	var players []PlayerIndex
	for _, p := range g.AlivePlayers() {
		if p == actor && !canSelf {
			continue
		}
		if p != actor && !canSelectInsiders && g.sharesInsiderGroup(actor, p) {
			continue
		}
		players = append(players, p)
	}
	return ControllerParameters{
		ID:             id,
		Available:      AvailablePlayerOption{Players: players, CanChooseNone: true},
		GrayedOut:      g.nightGrayedOut(actor),
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}
}

// dayPlayerController targets another living player during the day.
func dayPlayerController(g *Game, actor PlayerIndex, id ControllerID) ControllerParameters {
	var players []PlayerIndex
	for _, p := range g.AlivePlayers() {
		if p != actor {
			players = append(players, p)
		}
	}
	return ControllerParameters{
		ID:             id,
		Available:      AvailablePlayerOption{Players: players, CanChooseNone: true},
		GrayedOut:      !g.Alive(actor) || !g.Phase().Type.IsDay(),
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}
}

func nightBooleanController(g *Game, actor PlayerIndex, id ControllerID) ControllerParameters {
	return ControllerParameters{
		ID:             id,
		Available:      AvailableBoolean{},
		GrayedOut:      g.nightGrayedOut(actor),
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{actor},
	}
}

func (g *Game) nightGrayedOut(actor PlayerIndex) bool {
	return g.Phase().Type != PhaseNight || !g.Alive(actor) || g.isDetained(actor)
}

// forfeitVoteControllers lets a living player give up their nomination vote
// for the day.
func forfeitVoteControllers(g *Game, p PlayerIndex) []ControllerParameters {
	if !g.Alive(p) {
		return nil
	}
	return []ControllerParameters{{
		ID:             ForfeitVoteController(p),
		Available:      AvailableBoolean{},
		GrayedOut:      g.Phase().Type != PhaseDiscussion,
		ResetOn:        PhaseObituary,
		AllowedPlayers: []PlayerIndex{p},
	}}
}

// Forfeited reports whether p gave up their vote today.
func (g *Game) Forfeited(p PlayerIndex) bool {
	return g.booleanSelection(ForfeitVoteController(p))
}

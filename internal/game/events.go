package game

// Every cross-cutting hook of the game is one of the event types below. Each
// Invoke spells out its listener table; the order in the table is the order
// listeners run in.

type OnGameStart struct{}

func (ev OnGameStart) Invoke(g *Game) {
	dispatch(g, ev,
		modifiersOnGameStart,
		insidersOnGameStart,
		pitchforkOnGameStart,
		gunOnGameStart,
	)
}

type OnGameEnding struct {
	Conclusion Conclusion
}

func (ev OnGameEnding) Invoke(g *Game) {
	dispatch(g, ev,
		nightMessagesOnGameEnding,
		gameEndingNotify,
	)
}

// BeforePhaseEnd fires while the ending phase is still installed, so
// listeners can capture phase-scoped data before it is discarded.
type BeforePhaseEnd struct {
	Phase PhaseState
}

func (ev BeforePhaseEnd) Invoke(g *Game) {
	dispatch(g, ev,
		pitchforkBeforePhaseEnd,
		nightResolution,
		verdictsBeforePhaseEnd,
		lynchBeforePhaseEnd,
		eachRole(RoleState.BeforePhaseEnd),
	)
}

type OnPhaseStart struct {
	Phase PhaseState
	seq   uint64
}

// Invoke runs the listeners until one of them starts another phase; the
// remaining listeners belong to a phase that is already over and are
// skipped.
func (ev OnPhaseStart) Invoke(g *Game) {
	fns := []func(*Game, OnPhaseStart){
		modifiersOnPhaseStart,
		resetPhaseState,
		controllersOnPhaseStart,
		verdictsOnPhaseStart,
		detainedOnPhaseStart,
		deliverNightMessages,
		cultOnPhaseStart,
		pitchforkOnPhaseStart,
		gunOnPhaseStart,
		eachRole(RoleState.OnPhaseStart),
		chatGroupsOnPhaseStart,
		winOnPhaseStart,
	}
	listeners := make([]Listener[OnPhaseStart, Unit, Unit], len(fns))
	for i, fn := range fns {
		listeners[i] = func(g *Game, ev OnPhaseStart, _ *Unit, _ Unit) {
			if ev.seq != g.phaseSeq || g.ended {
				return
			}
			fn(g, ev)
		}
	}
	invoke(g, ev, Unit{}, unitPriority, listeners)
}

type OnAnyDeath struct {
	Dead PlayerIndex
}

func (ev OnAnyDeath) Invoke(g *Game) {
	dispatch(g, ev,
		gunOnAnyDeath,
		loveOnAnyDeath,
		eachRole(RoleState.OnAnyDeath),
		chatGroupsOnAnyDeath,
		winOnAnyDeath,
	)
}

type OnGraveAdded struct {
	Grave Grave
}

func (ev OnGraveAdded) Invoke(g *Game) {
	dispatch(g, ev,
		graveBroadcast,
		eachRole(RoleState.OnGraveAdded),
	)
}

type BeforeRoleSwitch struct {
	Player PlayerIndex
	Old    Role
	New    Role
}

func (ev BeforeRoleSwitch) Invoke(g *Game) {
	dispatch(g, ev,
		eachRole(RoleState.BeforeRoleSwitch),
	)
}

type OnRoleSwitch struct {
	Player PlayerIndex
	Old    Role
	New    Role
}

func (ev OnRoleSwitch) Invoke(g *Game) {
	dispatch(g, ev,
		insidersOnRoleSwitch,
		eachRole(RoleState.OnRoleSwitch),
		rolePacketOnRoleSwitch,
		chatGroupsOnRoleSwitch,
		winOnRoleSwitch,
	)
}

type OnAddInsider struct {
	Player PlayerIndex
	Group  InsiderGroup
}

func (ev OnAddInsider) Invoke(g *Game) {
	dispatch(g, ev,
		insidersRevealOnAdd,
		chatGroupsOnAddInsider,
	)
}

type OnRemoveInsider struct {
	Player PlayerIndex
	Group  InsiderGroup
}

func (ev OnRemoveInsider) Invoke(g *Game) {
	dispatch(g, ev,
		gunOnRemoveInsider,
		insidersRevealOnRemove,
		chatGroupsOnRemoveInsider,
	)
}

type OnControllerSelectionChanged struct {
	ID ControllerID
}

func (ev OnControllerSelectionChanged) Invoke(g *Game) {
	dispatch(g, ev,
		controllersOnSelectionChanged,
	)
}

// OnAbilityInputReceived fires for every ability input before validation.
type OnAbilityInputReceived struct {
	Actor PlayerIndex
	Input AbilityInput
}

func (ev OnAbilityInputReceived) Invoke(g *Game) {
	dispatch(g, ev,
		logAbilityInput,
	)
}

// OnValidatedAbilityInputReceived fires after an input passed validation
// and, unless its controller is DontSave, was committed.
type OnValidatedAbilityInputReceived struct {
	Actor PlayerIndex
	Input AbilityInput
}

func (ev OnValidatedAbilityInputReceived) Invoke(g *Game) {
	dispatch(g, ev,
		gunOnValidatedInput,
		eachRole(RoleState.OnValidatedAbilityInput),
	)
}

// WhisperPriority orders the stages of a whisper dispatch.
type WhisperPriority uint8

const (
	WhisperCancel WhisperPriority = iota
	WhisperBroadcast
	WhisperSend
)

var whisperPriorities = []WhisperPriority{WhisperCancel, WhisperBroadcast, WhisperSend}

// WhisperFold accumulates the outcome of a whisper dispatch.
type WhisperFold struct {
	Cancelled     bool
	HideBroadcast bool
}

type OnWhisper struct {
	Sender   PlayerIndex
	Receiver PlayerIndex
	Text     string
}

func (ev OnWhisper) Invoke(g *Game) WhisperFold {
	return invoke(g, ev, WhisperFold{}, whisperPriorities, []Listener[OnWhisper, WhisperFold, WhisperPriority]{
		modifiersOnWhisper,
		rolesOnWhisper,
		whisperCore,
	})
}

func rolesOnWhisper(g *Game, ev OnWhisper, fold *WhisperFold, priority WhisperPriority) {
	for _, p := range g.Players() {
		g.RoleState(p).OnWhisper(g, p, ev, fold, priority)
	}
}

// OnMidnight is the night priority sweep. The fold is the night being
// resolved.
type OnMidnight struct{}

func (ev OnMidnight) Invoke(g *Game, n Night) Night {
	return invoke(g, ev, n, Priorities(), []Listener[OnMidnight, Night, Priority]{
		nightCore,
		pitchforkOnMidnight,
		gunOnMidnight,
		rolesOnMidnight,
	})
}

type OnFastForward struct{}

func (ev OnFastForward) Invoke(g *Game) {
	dispatch(g, ev,
		fastForwardCore,
	)
}

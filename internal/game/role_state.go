package game

// RoleState is the per-player mutable state of a role together with its
// behaviour. Every role embeds roleBase and overrides only the hooks it
// cares about.
type RoleState interface {
	Role() Role

	// Controllers lists the ability slots the actor currently owns. The
	// result is computed from live game state on every call.
	Controllers(g *Game, actor PlayerIndex) []ControllerParameters
	ConvertSelectionToVisits(g *Game, actor PlayerIndex) []Visit
	NightChatGroups(g *Game, actor PlayerIndex) []ChatGroup

	OnMidnight(g *Game, n *Night, actor PlayerIndex, priority Priority)
	OnRoleCreation(g *Game, actor PlayerIndex)
	BeforeRoleSwitch(g *Game, actor PlayerIndex, ev BeforeRoleSwitch)
	OnRoleSwitch(g *Game, actor PlayerIndex, ev OnRoleSwitch)
	OnAnyDeath(g *Game, actor PlayerIndex, ev OnAnyDeath)
	OnGraveAdded(g *Game, actor PlayerIndex, ev OnGraveAdded)
	OnPhaseStart(g *Game, actor PlayerIndex, ev OnPhaseStart)
	BeforePhaseEnd(g *Game, actor PlayerIndex, ev BeforePhaseEnd)
	OnValidatedAbilityInput(g *Game, actor PlayerIndex, ev OnValidatedAbilityInputReceived)
	OnWhisper(g *Game, actor PlayerIndex, ev OnWhisper, fold *WhisperFold, priority WhisperPriority)
}

// winner is implemented by roles whose win is decided by their own state
// rather than by the game conclusion.
type winner interface {
	Won() bool
}

type roleBase struct{}

func (roleBase) Controllers(*Game, PlayerIndex) []ControllerParameters { return nil }
func (roleBase) ConvertSelectionToVisits(*Game, PlayerIndex) []Visit   { return nil }
func (roleBase) NightChatGroups(*Game, PlayerIndex) []ChatGroup        { return nil }

func (roleBase) OnMidnight(*Game, *Night, PlayerIndex, Priority)                             {}
func (roleBase) OnRoleCreation(*Game, PlayerIndex)                                           {}
func (roleBase) BeforeRoleSwitch(*Game, PlayerIndex, BeforeRoleSwitch)                       {}
func (roleBase) OnRoleSwitch(*Game, PlayerIndex, OnRoleSwitch)                               {}
func (roleBase) OnAnyDeath(*Game, PlayerIndex, OnAnyDeath)                                   {}
func (roleBase) OnGraveAdded(*Game, PlayerIndex, OnGraveAdded)                               {}
func (roleBase) OnPhaseStart(*Game, PlayerIndex, OnPhaseStart)                               {}
func (roleBase) BeforePhaseEnd(*Game, PlayerIndex, BeforePhaseEnd)                           {}
func (roleBase) OnValidatedAbilityInput(*Game, PlayerIndex, OnValidatedAbilityInputReceived) {}
func (roleBase) OnWhisper(*Game, PlayerIndex, OnWhisper, *WhisperFold, WhisperPriority)      {}

// NewRoleState returns the initial state of role r.
func NewRoleState(g *Game, r Role) RoleState {
	switch r {
	case RoleSheriff:
		return &Sheriff{}
	case RoleLookout:
		return &Lookout{}
	case RoleDoctor:
		return &Doctor{SelfHealsRemaining: 1}
	case RoleBodyguard:
		return &Bodyguard{}
	case RoleEscort:
		return &Escort{}
	case RoleTransporter:
		return &Transporter{}
	case RoleVeteran:
		return &Veteran{AlertsRemaining: 3}
	case RoleVigilante:
		return &Vigilante{BulletsRemaining: 3}
	case RoleJailor:
		return &Jailor{ExecutionsRemaining: 3}
	case RoleMayor:
		return &Mayor{}
	case RoleReporter:
		return &Reporter{}
	case RoleBouncer:
		return &Bouncer{}
	case RoleAuditor:
		return &Auditor{}
	case RoleGodfather:
		return &Godfather{}
	case RoleMafioso:
		return &Mafioso{}
	case RoleConsort:
		return &Consort{}
	case RoleFramer:
		return &Framer{}
	case RoleJanitor:
		return &Janitor{CleansRemaining: 3}
	case RoleKidnapper:
		return &Kidnapper{}
	case RoleApostle:
		return &Apostle{}
	case RoleZealot:
		return &Zealot{}
	case RoleJester:
		return &Jester{}
	case RoleAmnesiac:
		return &Amnesiac{}
	case RoleArsonist:
		return &Arsonist{}
	case RolePuppeteer:
		return &Puppeteer{MarionettesRemaining: ceilDiv(g.PlayerCount(), 5)}
	}
	invariantf("no state for role %d", uint8(r))
	return nil
}

// setRole replaces the player's role, resetting its win condition to the new
// role's default.
func (g *Game) setRole(p PlayerIndex, r Role) {
	pl := g.player(p)
	old := pl.role.Role()
	BeforeRoleSwitch{Player: p, Old: old, New: r}.Invoke(g)
	pl.role = NewRoleState(g, r)
	pl.winCondition = r.defaultWinCondition()
	pl.role.OnRoleCreation(g, p)
	OnRoleSwitch{Player: p, Old: old, New: r}.Invoke(g)
}

// suspicious reports what an investigation of p reveals tonight.
func (g *Game) suspicious(p PlayerIndex) bool {
	return g.HasTag(p, TagFramed) || g.RoleOf(p).Info().Suspicious
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// roleKiller is the grave killer entry for a role-owned attack.
func roleKiller(r Role) GraveKiller {
	return GraveKiller{Kind: KillerRole, Role: r}
}

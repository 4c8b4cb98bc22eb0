package game

import (
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// Game is the authoritative state of one match. It is not safe for
// concurrent use: a single owner goroutine must serialise every call.
type Game struct {
	settings  Settings
	modifiers modifierSet
	players   []Player

	// outlinePlayers[i] is the player who received role list entry i.
	outlinePlayers []PlayerIndex

	phase      PhaseState
	day        uint8
	timeLeft   time.Duration
	phaseSeq   uint64
	phaseDepth int

	started    bool
	ended      bool
	conclusion Conclusion
	deferWin   bool

	selections    map[ControllerID]Selection
	graves        []Grave
	insiders      [insiderGroupCount][]bool
	detained      []detention
	lovers        map[PlayerIndex]PlayerIndex
	verdictsToday []PlayerIndex
	lastNight     *Night
	nightPending  bool

	cult      cultState
	pitchfork pitchforkState
	gun       syndicateGun

	rng  *rand.Rand
	sink Sink
	log  zerolog.Logger
}

// Option configures a Game.
type Option func(*Game)

// WithSink sets the packet sink. The default discards every packet.
func WithSink(s Sink) Option {
	return func(g *Game) {
		g.sink = s
	}
}

// WithLogger sets the logger. The default is zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(g *Game) {
		g.log = l
	}
}

// New creates a game for the given roster. Roles are drawn from the settings'
// role list with the settings' seed. The game stays idle until Start.
func New(names []string, settings Settings, opts ...Option) (*Game, error) {
	if err := settings.Validate(len(names)); err != nil {
		return nil, err
	}
	settings = settings.clone()

	g := &Game{
		settings:   settings,
		modifiers:  newModifierSet(settings.Modifiers),
		selections: make(map[ControllerID]Selection),
		rng:        rand.New(rand.NewPCG(settings.Seed, settings.Seed^0x9e3779b97f4a7c15)),
		sink:       discardSink{},
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	roles, err := resolveRoleList(settings.RoleList, g.rng)
	if err != nil {
		return nil, err
	}
	g.outlinePlayers = seatOrder(len(names), settings.AssignInOrder, g.rng)

	g.players = make([]Player, len(names))
	for i, name := range normalizeRoster(names) {
		g.players[i] = Player{name: name, alive: true, connected: true}
	}
	for group := range g.insiders {
		g.insiders[group] = make([]bool, len(names))
	}
	for i, p := range g.outlinePlayers {
		pl := g.player(p)
		pl.role = NewRoleState(g, roles[i])
		pl.winCondition = roles[i].defaultWinCondition()
	}
	for _, p := range g.Players() {
		g.RoleState(p).OnRoleCreation(g, p)
	}
	return g, nil
}

// Start tells every player their role and opens the Briefing. Calling Start
// twice does nothing.
func (g *Game) Start() {
	if g.started {
		return
	}
	g.started = true
	g.log.Info().Int("players", g.PlayerCount()).Msg("game started")

	for _, p := range g.Players() {
		r := g.RoleOf(p)
		g.send(p, RolePacket{Role: r})
		g.addPrivateMessages(p, ChatMessage{Kind: MsgRoleAssignment, Role: r})
	}
	OnGameStart{}.Invoke(g)
	g.day = 1
	g.StartPhase(PhaseState{Type: PhaseBriefing})
}

// Started reports whether Start was called.
func (g *Game) Started() bool { return g.started }

// Settings returns a copy of the settings the game was created with.
func (g *Game) Settings() Settings { return g.settings.clone() }

// OutlinePlayer returns the player who received role list entry i.
func (g *Game) OutlinePlayer(i int) (PlayerIndex, bool) {
	if i < 0 || i >= len(g.outlinePlayers) {
		return 0, false
	}
	return g.outlinePlayers[i], true
}

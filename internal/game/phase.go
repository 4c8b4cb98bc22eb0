package game

import (
	"fmt"
	"strings"
	"time"
)

// PhaseType names a stage of the day/night cycle.
type PhaseType uint8

const (
	PhaseBriefing PhaseType = iota + 1
	PhaseObituary
	PhaseDiscussion
	PhaseNomination
	PhaseTestimony
	PhaseJudgement
	PhaseFinalWords
	PhaseDusk
	PhaseNight
)

var phaseNames = map[PhaseType]string{
	PhaseBriefing:   "briefing",
	PhaseObituary:   "obituary",
	PhaseDiscussion: "discussion",
	PhaseNomination: "nomination",
	PhaseTestimony:  "testimony",
	PhaseJudgement:  "judgement",
	PhaseFinalWords: "final_words",
	PhaseDusk:       "dusk",
	PhaseNight:      "night",
}

func (t PhaseType) String() string {
	if name, ok := phaseNames[t]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", uint8(t))
}

func (t PhaseType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PhaseType) UnmarshalText(text []byte) error {
	parsed, err := ParsePhaseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParsePhaseType maps a phase name to its PhaseType.
func ParsePhaseType(name string) (PhaseType, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range phaseNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// IsDay reports whether the phase belongs to the day part of the cycle.
func (t PhaseType) IsDay() bool {
	return t != PhaseNight && t != PhaseBriefing
}

// hasDefendant reports whether the phase carries a player on trial.
func (t PhaseType) hasDefendant() bool {
	return t == PhaseTestimony || t == PhaseJudgement || t == PhaseFinalWords
}

// PhaseState is the current phase with its payload. PlayerOnTrial is set for
// Testimony, Judgement and FinalWords; TrialsLeft for Nomination, Testimony
// and Judgement.
type PhaseState struct {
	Type          PhaseType   `json:"type"`
	PlayerOnTrial PlayerIndex `json:"player_on_trial,omitempty"`
	TrialsLeft    uint8       `json:"trials_left,omitempty"`
}

func (ps PhaseState) String() string {
	switch {
	case ps.Type.hasDefendant():
		return fmt.Sprintf("%s(%d)", ps.Type, ps.PlayerOnTrial)
	case ps.Type == PhaseNomination:
		return fmt.Sprintf("%s[%d]", ps.Type, ps.TrialsLeft)
	}
	return ps.Type.String()
}

const trialsPerDay = 3

// PhaseTimes holds the duration of each phase.
type PhaseTimes map[PhaseType]time.Duration

// DefaultPhaseTimes returns the stock phase durations.
func DefaultPhaseTimes() PhaseTimes {
	return PhaseTimes{
		PhaseBriefing:   45 * time.Second,
		PhaseObituary:   60 * time.Second,
		PhaseDiscussion: 120 * time.Second,
		PhaseNomination: 120 * time.Second,
		PhaseTestimony:  30 * time.Second,
		PhaseJudgement:  60 * time.Second,
		PhaseFinalWords: 30 * time.Second,
		PhaseDusk:       30 * time.Second,
		PhaseNight:      60 * time.Second,
	}
}

// For returns the configured duration, falling back to the default.
func (pt PhaseTimes) For(t PhaseType) time.Duration {
	if d, ok := pt[t]; ok {
		return d
	}
	return DefaultPhaseTimes()[t]
}

// Phase returns the current phase.
func (g *Game) Phase() PhaseState { return g.phase }

// DayNumber returns the current day. Day 1 starts at Briefing and the count
// increases on entering each Obituary.
func (g *Game) DayNumber() uint8 { return g.day }

// TimeLeft returns the time remaining in the current phase.
func (g *Game) TimeLeft() time.Duration { return g.timeLeft }

// End computes the successor of the current phase without changing state.
func (g *Game) End() PhaseState {
	ps := g.phase
	switch ps.Type {
	case PhaseBriefing, PhaseObituary:
		return PhaseState{Type: PhaseDiscussion}
	case PhaseDiscussion:
		return PhaseState{Type: PhaseNomination, TrialsLeft: trialsPerDay}
	case PhaseNomination:
		if g.ModifierEnabled(ModifierScheduledNominations) && ps.TrialsLeft > 0 {
			if p, ok := g.nominee(); ok {
				return PhaseState{Type: PhaseTestimony, PlayerOnTrial: p, TrialsLeft: ps.TrialsLeft - 1}
			}
		}
		return PhaseState{Type: PhaseDusk}
	case PhaseTestimony:
		return PhaseState{Type: PhaseJudgement, PlayerOnTrial: ps.PlayerOnTrial, TrialsLeft: ps.TrialsLeft}
	case PhaseJudgement:
		guilty, innocent := g.countVerdicts(ps.PlayerOnTrial)
		switch {
		case guilty > innocent:
			return PhaseState{Type: PhaseFinalWords, PlayerOnTrial: ps.PlayerOnTrial}
		case ps.TrialsLeft > 0:
			return PhaseState{Type: PhaseNomination, TrialsLeft: ps.TrialsLeft}
		}
		return PhaseState{Type: PhaseDusk}
	case PhaseFinalWords:
		return PhaseState{Type: PhaseDusk}
	case PhaseDusk:
		return PhaseState{Type: PhaseNight}
	case PhaseNight:
		return PhaseState{Type: PhaseObituary}
	}
	invariantf("no successor for phase %s", ps.Type)
	return ps
}

// maxPhaseDepth allows one modifier override inside a phase start.
const maxPhaseDepth = 2

// StartPhase ends the current phase and installs next.
func (g *Game) StartPhase(next PhaseState) {
	g.phaseDepth++
	defer func() { g.phaseDepth-- }()
	if g.phaseDepth > maxPhaseDepth {
		invariantf("phase %s started while %d phase starts are in progress", next, g.phaseDepth-1)
	}

	if g.phaseSeq > 0 {
		BeforePhaseEnd{Phase: g.phase}.Invoke(g)
		if g.ended {
			return
		}
	}
	if next.Type.hasDefendant() && !g.Alive(next.PlayerOnTrial) {
		invariantf("player on trial %d is not alive", next.PlayerOnTrial)
	}

	g.phase = next
	if next.Type == PhaseObituary {
		g.day++
	}
	g.timeLeft = g.settings.PhaseTimes.For(next.Type)
	g.phaseSeq++

	g.log.Debug().
		Str("phase", next.String()).
		Uint8("day", g.day).
		Msg("phase started")

	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgPhaseChange, Phase: next.Type, Day: g.day})
	g.broadcast(PhasePacket{Phase: next, Day: g.day, TimeLeft: g.timeLeft})

	OnPhaseStart{Phase: next, seq: g.phaseSeq}.Invoke(g)
}

// Tick advances the phase timer. When the timer runs out the phase ends.
func (g *Game) Tick(elapsed time.Duration) {
	if !g.started || g.ended {
		return
	}
	if g.timeLeft > elapsed {
		g.timeLeft -= elapsed
		return
	}
	g.timeLeft = 0
	g.StartPhase(g.End())
}

// FastForward ends the current phase on the next tick.
func (g *Game) FastForward() {
	OnFastForward{}.Invoke(g)
}

func fastForwardCore(g *Game, _ OnFastForward) {
	g.timeLeft = 0
	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgFastForward})
}

// resetPhaseState clears the per-phase votes of the previous phase.
func resetPhaseState(g *Game, ev OnPhaseStart) {
	for i := range g.players {
		pl := &g.players[i]
		pl.skipVote = false
		switch ev.Phase.Type {
		case PhaseNomination:
			pl.vote = nil
		case PhaseJudgement:
			pl.verdict = g.defaultVerdict()
		}
	}
	switch ev.Phase.Type {
	case PhaseNomination:
		g.addMessageToGroup(ChatAll, ChatMessage{
			Kind:   MsgTrialInformation,
			Count:  g.requiredVotes(),
			Trials: int(ev.Phase.TrialsLeft),
		})
		g.broadcastVotes()
	case PhaseTestimony:
		g.addMessageToGroup(ChatAll, ChatMessage{
			Kind:    MsgPlayerNominated,
			Player:  ptr(ev.Phase.PlayerOnTrial),
			Players: g.votersFor(ev.Phase.PlayerOnTrial),
		})
	}
}

func (g *Game) defaultVerdict() Verdict {
	if g.ModifierEnabled(ModifierNoAbstaining) {
		return VerdictInnocent
	}
	return VerdictAbstain
}

// eligibleVoters are the living players who did not forfeit their vote.
func (g *Game) eligibleVoters() []PlayerIndex {
	var out []PlayerIndex
	for _, p := range g.AlivePlayers() {
		if !g.Forfeited(p) {
			out = append(out, p)
		}
	}
	return out
}

// requiredVotes is the vote weight needed to put a player on trial.
func (g *Game) requiredVotes() int {
	n := len(g.eligibleVoters())
	if g.ModifierEnabled(ModifierTwoThirdsMajority) {
		return (2*n + 2) / 3
	}
	return n/2 + 1
}

// voteWeight is the weight of p's nomination vote and verdict.
func (g *Game) voteWeight(p PlayerIndex) int {
	if m, ok := g.RoleState(p).(*Mayor); ok && m.Revealed {
		return 3
	}
	return 1
}

func (g *Game) votesFor(target PlayerIndex) int {
	total := 0
	for _, p := range g.eligibleVoters() {
		if v := g.player(p).vote; v != nil && *v == target {
			total += g.voteWeight(p)
		}
	}
	return total
}

func (g *Game) votersFor(target PlayerIndex) []PlayerIndex {
	var out []PlayerIndex
	for _, p := range g.eligibleVoters() {
		if v := g.player(p).vote; v != nil && *v == target {
			out = append(out, p)
		}
	}
	return out
}

// nominee returns the living player with the most votes, if those votes
// reach the requirement. The lowest index wins a tie.
func (g *Game) nominee() (PlayerIndex, bool) {
	required := g.requiredVotes()
	best, bestVotes := PlayerIndex(0), 0
	for _, p := range g.AlivePlayers() {
		if votes := g.votesFor(p); votes > bestVotes {
			best, bestVotes = p, votes
		}
	}
	return best, bestVotes > 0 && bestVotes >= required
}

// checkNomination puts the nominee on trial immediately unless nominations
// are scheduled for the end of the phase.
func (g *Game) checkNomination() {
	if g.phase.Type != PhaseNomination || g.ModifierEnabled(ModifierScheduledNominations) {
		return
	}
	if g.phase.TrialsLeft == 0 {
		return
	}
	if p, ok := g.nominee(); ok {
		g.StartPhase(PhaseState{Type: PhaseTestimony, PlayerOnTrial: p, TrialsLeft: g.phase.TrialsLeft - 1})
	}
}

// countVerdicts weighs the verdicts of living players other than the
// defendant.
func (g *Game) countVerdicts(defendant PlayerIndex) (guilty, innocent int) {
	for _, p := range g.AlivePlayers() {
		if p == defendant {
			continue
		}
		switch g.player(p).verdict {
		case VerdictGuilty:
			guilty += g.voteWeight(p)
		case VerdictInnocent:
			innocent += g.voteWeight(p)
		}
	}
	return guilty, innocent
}

// lynchBeforePhaseEnd executes the defendant when Final Words end.
func lynchBeforePhaseEnd(g *Game, ev BeforePhaseEnd) {
	if ev.Phase.Type != PhaseFinalWords {
		return
	}
	defendant := ev.Phase.PlayerOnTrial
	if !g.Alive(defendant) {
		return
	}
	guilty, innocent := g.countVerdicts(defendant)
	if g.ModifierEnabled(ModifierAutoGuilty) || guilty > innocent {
		g.kill(defendant, g.lynchGrave(defendant))
	}
}

func (g *Game) broadcastVotes() {
	votes := make(map[PlayerIndex]int)
	for _, p := range g.AlivePlayers() {
		if n := g.votesFor(p); n > 0 {
			votes[p] = n
		}
	}
	g.broadcast(PlayerVotesPacket{Votes: votes})
}

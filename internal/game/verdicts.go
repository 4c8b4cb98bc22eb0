package game

import "slices"

// VerdictsToday returns the players who voted guilty in the most recent
// Judgement of the current day.
func (g *Game) VerdictsToday() []PlayerIndex {
	return slices.Clone(g.verdictsToday)
}

// verdictsBeforePhaseEnd announces the verdicts and records the guilty
// voters while the Judgement is still installed.
func verdictsBeforePhaseEnd(g *Game, ev BeforePhaseEnd) {
	if ev.Phase.Type != PhaseJudgement {
		return
	}
	defendant := ev.Phase.PlayerOnTrial

	var guiltyVoters []PlayerIndex
	for _, p := range g.AlivePlayers() {
		if p == defendant {
			continue
		}
		verdict := g.Verdict(p)
		g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgJudgementVerdict, Player: ptr(p), Verdict: verdict})
		if verdict == VerdictGuilty {
			guiltyVoters = append(guiltyVoters, p)
		}
	}
	g.verdictsToday = guiltyVoters

	guilty, innocent := g.countVerdicts(defendant)
	g.addMessageToGroup(ChatAll, ChatMessage{
		Kind:     MsgTrialVerdict,
		Player:   ptr(defendant),
		Guilty:   guilty,
		Innocent: innocent,
	})
}

func verdictsOnPhaseStart(g *Game, ev OnPhaseStart) {
	if ev.Phase.Type == PhaseObituary {
		g.verdictsToday = nil
	}
}

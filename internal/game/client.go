package game

import (
	"strings"
	"unicode/utf8"
)

// ClientMessage is an input sent by a player's client.
type ClientMessage interface {
	clientMessage()
}

type SendChatMessage struct {
	Text string `json:"text"`
}

type SendWhisper struct {
	Receiver PlayerIndex `json:"receiver"`
	Text     string      `json:"text"`
}

type SaveWill struct {
	Text string `json:"text"`
}

// Vote nominates Player during the Nomination. A nil Player withdraws the
// vote.
type Vote struct {
	Player *PlayerIndex `json:"player,omitempty"`
}

type JudgementVote struct {
	Verdict Verdict `json:"verdict"`
}

// VoteFastForward asks to end the current phase early. The phase ends once
// every living connected player asked.
type VoteFastForward struct {
	Skip bool `json:"skip"`
}

func (SendChatMessage) clientMessage() {}
func (SendWhisper) clientMessage()     {}
func (SaveWill) clientMessage()        {}
func (Vote) clientMessage()            {}
func (JudgementVote) clientMessage()   {}
func (VoteFastForward) clientMessage() {}

// OnClientMessage applies one client input from p. A rejected input returns
// an error wrapping ErrInputRejected, sends p a rejection notice and leaves
// the game unchanged.
func (g *Game) OnClientMessage(p PlayerIndex, msg ClientMessage) error {
	if in, ok := msg.(AbilityInput); ok {
		return g.AbilityInput(p, in)
	}
	if err := g.handleClientMessage(p, msg); err != nil {
		g.reject(p, err)
		return err
	}
	return nil
}

func (g *Game) handleClientMessage(p PlayerIndex, msg ClientMessage) error {
	if !g.ValidPlayer(p) {
		return rejectf("unknown player %d", p)
	}
	if !g.started || g.ended {
		return rejectf("game is not running")
	}
	switch m := msg.(type) {
	case SendChatMessage:
		return g.sendChat(p, m.Text)
	case SendWhisper:
		return g.whisper(p, m.Receiver, m.Text)
	case SaveWill:
		return g.saveWill(p, m.Text)
	case Vote:
		return g.vote(p, m.Player)
	case JudgementVote:
		return g.judgementVote(p, m.Verdict)
	case VoteFastForward:
		return g.voteFastForward(p, m.Skip)
	}
	return rejectf("unsupported message %T", msg)
}

func (g *Game) saveWill(p PlayerIndex, text string) error {
	if !g.Alive(p) {
		return rejectf("dead players cannot edit their will")
	}
	if utf8.RuneCountInString(text) > maxWillLength {
		return rejectf("will longer than %d characters", maxWillLength)
	}
	g.player(p).will = text
	return nil
}

func (g *Game) vote(p PlayerIndex, target *PlayerIndex) error {
	if g.phase.Type != PhaseNomination {
		return rejectf("votes are only accepted during the nomination")
	}
	if !g.Alive(p) || g.Forfeited(p) {
		return rejectf("player %d cannot vote", p)
	}
	if target != nil {
		if !g.ValidPlayer(*target) || !g.Alive(*target) || *target == p {
			return rejectf("cannot vote for player %d", *target)
		}
	}
	pl := g.player(p)
	if samePlayer(pl.vote, target) {
		return nil
	}
	if target == nil {
		pl.vote = nil
	} else {
		pl.vote = ptr(*target)
	}
	g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgVoted, Player: ptr(p), Target: pl.vote})
	g.broadcastVotes()
	g.checkNomination()
	return nil
}

func samePlayer(a, b *PlayerIndex) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (g *Game) judgementVote(p PlayerIndex, v Verdict) error {
	if g.phase.Type != PhaseJudgement {
		return rejectf("verdicts are only accepted during the judgement")
	}
	if !g.Alive(p) || p == g.phase.PlayerOnTrial {
		return rejectf("player %d cannot judge", p)
	}
	switch v {
	case VerdictInnocent, VerdictGuilty:
	case VerdictAbstain:
		if g.ModifierEnabled(ModifierNoAbstaining) {
			return rejectf("abstaining is disabled")
		}
	default:
		return rejectf("unknown verdict %d", v)
	}
	g.player(p).verdict = v
	return nil
}

func (g *Game) voteFastForward(p PlayerIndex, skip bool) error {
	if !g.Alive(p) {
		return rejectf("dead players cannot vote to skip")
	}
	g.player(p).skipVote = skip
	if !skip {
		return nil
	}
	for _, other := range g.AlivePlayers() {
		pl := g.player(other)
		if pl.connected && !pl.skipVote {
			return nil
		}
	}
	g.FastForward()
	return nil
}

func (g *Game) whisper(sender, receiver PlayerIndex, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return rejectf("empty whisper")
	}
	if utf8.RuneCountInString(text) > maxChatLength {
		return rejectf("whisper longer than %d characters", maxChatLength)
	}
	if !g.ValidPlayer(receiver) || receiver == sender {
		return rejectf("cannot whisper to player %d", receiver)
	}
	if fold := (OnWhisper{Sender: sender, Receiver: receiver, Text: text}).Invoke(g); fold.Cancelled {
		return rejectf("whisper from %d to %d was blocked", sender, receiver)
	}
	return nil
}

// whisperCore cancels whispers involving dead players or sent outside the
// day, then broadcasts and delivers the rest.
func whisperCore(g *Game, ev OnWhisper, fold *WhisperFold, priority WhisperPriority) {
	switch priority {
	case WhisperCancel:
		if !g.Alive(ev.Sender) || !g.Alive(ev.Receiver) || !g.phase.Type.IsDay() {
			fold.Cancelled = true
		}
	case WhisperBroadcast:
		if !fold.Cancelled && !fold.HideBroadcast {
			g.addMessageToGroup(ChatAll, ChatMessage{Kind: MsgBroadcastWhisper, Sender: ptr(ev.Sender), Target: ptr(ev.Receiver)})
		}
	case WhisperSend:
		if fold.Cancelled {
			return
		}
		msg := ChatMessage{Kind: MsgWhisper, Sender: ptr(ev.Sender), Target: ptr(ev.Receiver), Text: ev.Text}
		g.addPrivateMessages(ev.Sender, msg)
		g.addPrivateMessages(ev.Receiver, msg)
	}
}

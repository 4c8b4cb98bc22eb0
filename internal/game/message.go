package game

// MessageKind names a chat message variant.
type MessageKind string

const (
	MsgNormal           MessageKind = "normal"
	MsgWhisper          MessageKind = "whisper"
	MsgBroadcastWhisper MessageKind = "broadcast_whisper"
	MsgPhaseChange      MessageKind = "phase_change"
	MsgTrialInformation MessageKind = "trial_information"
	MsgVoted            MessageKind = "voted"
	MsgPlayerNominated  MessageKind = "player_nominated"
	MsgJudgementVerdict MessageKind = "judgement_verdict"
	MsgTrialVerdict     MessageKind = "trial_verdict"
	MsgPlayerDied       MessageKind = "player_died"
	MsgGameOver         MessageKind = "game_over"
	MsgPlayerWon        MessageKind = "player_won"
	MsgPlayerLost       MessageKind = "player_lost"
	MsgFastForward      MessageKind = "fast_forward"
	MsgRoleAssignment   MessageKind = "role_assignment"
	MsgMayorRevealed    MessageKind = "mayor_revealed"
	MsgJesterWon        MessageKind = "jester_won"
	MsgLoveLinked       MessageKind = "love_linked"
	MsgGunReceived      MessageKind = "gun_received"
	MsgGunGiven         MessageKind = "gun_given"
	MsgAngryMob         MessageKind = "angry_mob"
	MsgCultConvertsNext MessageKind = "cult_converts_next"
	MsgCultKillsNext    MessageKind = "cult_kills_next"
	MsgJailed           MessageKind = "jailed"
	MsgKidnapped        MessageKind = "kidnapped"

	// night results, delivered at Obituary
	MsgRoleblocked          MessageKind = "roleblocked"
	MsgRoleblockImmune      MessageKind = "roleblock_immune"
	MsgTransported          MessageKind = "transported"
	MsgYouWereProtected     MessageKind = "you_were_protected"
	MsgTargetWasAttacked    MessageKind = "target_was_attacked"
	MsgYouSurvivedAttack    MessageKind = "you_survived_attack"
	MsgTargetSurvivedAttack MessageKind = "target_survived_attack"
	MsgYouDied              MessageKind = "you_died"
	MsgSheriffResult        MessageKind = "sheriff_result"
	MsgLookoutResult        MessageKind = "lookout_result"
	MsgAuditorResult        MessageKind = "auditor_result"
	MsgJanitorResult        MessageKind = "janitor_result"
	MsgConverted            MessageKind = "converted"
	MsgConvertFailed        MessageKind = "convert_failed"
	MsgMarionette           MessageKind = "marionette"
	MsgReporterReport       MessageKind = "reporter_report"
	MsgRoleChanged          MessageKind = "role_changed"
)

// ChatMessage is one entry of a player's chat log. Only the fields relevant
// to Kind are set.
type ChatMessage struct {
	Kind       MessageKind   `json:"kind"`
	Group      ChatGroup     `json:"group,omitempty"`
	Sender     *PlayerIndex  `json:"sender,omitempty"`
	Text       string        `json:"text,omitempty"`
	Player     *PlayerIndex  `json:"player,omitempty"`
	Target     *PlayerIndex  `json:"target,omitempty"`
	Players    []PlayerIndex `json:"players,omitempty"`
	Role       Role          `json:"role,omitempty"`
	Roles      []Role        `json:"roles,omitempty"`
	Phase      PhaseType     `json:"phase,omitempty"`
	Day        uint8         `json:"day,omitempty"`
	Count      int           `json:"count,omitempty"`
	Trials     int           `json:"trials,omitempty"`
	Guilty     int           `json:"guilty,omitempty"`
	Innocent   int           `json:"innocent,omitempty"`
	Verdict    Verdict       `json:"verdict,omitempty"`
	Suspicious bool          `json:"suspicious,omitempty"`
	Grave      *Grave        `json:"grave,omitempty"`
	Conclusion Conclusion    `json:"conclusion,omitempty"`
}

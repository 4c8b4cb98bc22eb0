package game

// Visit is one scheduled interaction of the night. Visits live only for the
// night they were created for.
type Visit struct {
	Visitor PlayerIndex
	Target  PlayerIndex
	Attack  bool
	Origin  ControllerID
}

// Priority is a level of the night sweep. Levels run in ascending order.
type Priority uint8

const (
	PriorityTop Priority = iota
	PriorityTransport
	PriorityRoleblock
	PriorityDeception
	PriorityHeal
	PriorityBodyguard
	PriorityKill
	PriorityConvert
	PriorityInvestigative
	PriorityCleanup
	PriorityDebug
	priorityCount
)

var priorityNames = [priorityCount]string{
	"top", "transport", "roleblock", "deception", "heal", "bodyguard",
	"kill", "convert", "investigative", "cleanup", "debug",
}

func (p Priority) String() string {
	if p < priorityCount {
		return priorityNames[p]
	}
	return "unknown"
}

// Priorities returns every night priority in sweep order.
func Priorities() []Priority {
	out := make([]Priority, priorityCount)
	for i := range out {
		out[i] = Priority(i)
	}
	return out
}

// visitsFromSelection turns the actor's saved player selection for id into
// visits. Only living actors visit.
func visitsFromSelection(g *Game, actor PlayerIndex, id ControllerID, attack bool) []Visit {
	if !g.Alive(actor) {
		return nil
	}
	var out []Visit
	switch sel := g.selection(id).(type) {
	case PlayerOption:
		if sel.Player != nil {
			out = append(out, Visit{Visitor: actor, Target: *sel.Player, Attack: attack, Origin: id})
		}
	case TwoPlayerOption:
		if sel.Players != nil {
			out = append(out,
				Visit{Visitor: actor, Target: sel.Players[0], Attack: attack, Origin: id},
				Visit{Visitor: actor, Target: sel.Players[1], Attack: attack, Origin: id},
			)
		}
	}
	return out
}

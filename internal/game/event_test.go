package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type orderEvent struct{}

func TestInvoke_PriorityThenDeclarationOrder(t *testing.T) {
	var trace []string
	record := func(name string) Listener[orderEvent, int, Priority] {
		return func(_ *Game, _ orderEvent, fold *int, priority Priority) {
			if priority == PriorityHeal || priority == PriorityKill {
				trace = append(trace, name+"@"+priority.String())
				*fold++
			}
		}
	}

	fold := invoke(nil, orderEvent{}, 0, Priorities(), []Listener[orderEvent, int, Priority]{
		record("a"),
		record("b"),
	})

	assert.Equal(t, []string{"a@heal", "b@heal", "a@kill", "b@kill"}, trace)
	assert.Equal(t, 4, fold)
}

func TestDispatch_RunsInOrder(t *testing.T) {
	var trace []int
	dispatch(nil, orderEvent{},
		func(*Game, orderEvent) { trace = append(trace, 1) },
		func(*Game, orderEvent) { trace = append(trace, 2) },
		func(*Game, orderEvent) { trace = append(trace, 3) },
	)
	assert.Equal(t, []int{1, 2, 3}, trace)
}

func TestPriorities_Ascending(t *testing.T) {
	ps := Priorities()
	assert.Equal(t, PriorityTop, ps[0])
	for i := 1; i < len(ps); i++ {
		assert.Less(t, ps[i-1], ps[i])
	}
	assert.Less(t, PriorityRoleblock, PriorityKill)
	assert.Less(t, PriorityKill, PriorityInvestigative)
}

func TestOnPhaseStart_StaleListenersSkipped(t *testing.T) {
	settings := testSettings(basicRoster()...)
	settings.Modifiers = []ModifierType{ModifierSkipDay1}
	g, sink := newTestGameWith(t, settings)

	nextPhase(g)

	// day 1 discussion is replaced by dusk
	assert.Equal(t, PhaseDusk, g.Phase().Type)
	phases := sink.to(0, "phase")
	assert.Len(t, phases, 3)
	assert.Equal(t, PhaseDusk, phases[2].(PhasePacket).Phase.Type)
}

package game

// Unit is the empty fold value and priority for events that need neither.
type Unit struct{}

var unitPriority = []Unit{{}}

// Listener observes one dispatch of event E. fold is threaded through every
// listener of the dispatch; priority is the level currently being walked.
type Listener[E, F, P any] func(g *Game, ev E, fold *F, priority P)

// invoke walks priorities in the given order and, within each priority,
// calls every listener in declared order. Listeners may mutate game state
// freely; later listeners observe what earlier ones wrote.
func invoke[E, F, P any](g *Game, ev E, fold F, priorities []P, listeners []Listener[E, F, P]) F {
	for _, priority := range priorities {
		for _, listener := range listeners {
			listener(g, ev, &fold, priority)
		}
	}
	return fold
}

// simple adapts a plain callback into a listener of an unordered, fold-less
// event.
func simple[E any](fn func(*Game, E)) Listener[E, Unit, Unit] {
	return func(g *Game, ev E, _ *Unit, _ Unit) {
		fn(g, ev)
	}
}

// dispatch invokes an unordered, fold-less event over fns in order.
func dispatch[E any](g *Game, ev E, fns ...func(*Game, E)) {
	listeners := make([]Listener[E, Unit, Unit], len(fns))
	for i, fn := range fns {
		listeners[i] = simple(fn)
	}
	invoke(g, ev, Unit{}, unitPriority, listeners)
}

// eachRole builds a listener that calls fn for every player's role state in
// ascending player order.
func eachRole[E any](fn func(rs RoleState, g *Game, actor PlayerIndex, ev E)) func(*Game, E) {
	return func(g *Game, ev E) {
		for _, p := range g.Players() {
			fn(g.RoleState(p), g, p, ev)
		}
	}
}

// Package harness runs scripted games for conformance tests and for the
// simulate command.
//
// A scenario seats a roster, feeds inputs to a real engine runner and
// records every input and packet in a transcript. Assertions then check
// the transcript, the final outcome and the stats the runner recorded.
//
// # Scenario Format
//
//	name: mafioso_kills_sheriff
//	description: "A lone mafioso wins by killing the sheriff"
//	players: [ann, bob]
//	settings:
//	  roles: [mafioso, sheriff]
//	  seed: 7
//	  assign_in_order: true
//	flow:
//	  - advance: night
//	  - player: 0
//	    send:
//	      type: ability_input
//	      data:
//	        id: {kind: role, player: 0, role: mafioso}
//	        selection: {kind: player_option, player: 1}
//	    expect: accepted
//	  - advance: obituary
//	assertions:
//	  - type: conclusion
//	    value: mafia
//	  - type: player
//	    player: 1
//	    expect: {alive: false, won: false}
//	  - type: trace_count
//	    player: 0
//	    packet: game_over
//	    count: 1
//	  - type: final_state
//	    table: games
//	    where: {id: mafioso_kills_sheriff}
//	    expect: {conclusion: mafia}
//
// Messages under send use the same {type, data} envelope as the socket
// transport.
//
// # Determinism
//
// The runner never ticks on its own: time moves only on advance and tick
// steps, and role assignment follows the settings seed. Every step waits
// for the runner to process it before the next one runs, so two runs of a
// scenario produce the same transcript. AssertGolden compares transcripts
// with files under testdata/golden.
package harness

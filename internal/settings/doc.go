// Package settings loads game settings files.
//
// A settings file is YAML (or CUE) describing the role list, the enabled
// modifiers, phase durations in seconds and the RNG seed:
//
//	roles:
//	  - godfather
//	  - set: town_investigative
//	  - doctor
//	modifiers: [no_whispers]
//	phase_times:
//	  discussion: 90
//	seed: 42
//
// Loading happens in three steps. The document is decoded strictly (unknown
// keys are errors), checked structurally against the embedded CUE schema,
// and finally every name is resolved against the game's role, role set,
// modifier and phase tables.
package settings

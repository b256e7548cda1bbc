// Package mention_mode_enum defines how mentions of the local user are
// surfaced for a thread whose notifications are otherwise muted.
package mention_mode_enum

const (
	DEFAULT int8 = 0 // follow the global notification setting
	ALWAYS  int8 = 1 // notify on mention even while muted
	NEVER   int8 = 2 // never notify on mention
)

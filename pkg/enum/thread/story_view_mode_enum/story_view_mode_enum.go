// Package story_view_mode_enum defines who may see stories posted to a thread.
package story_view_mode_enum

const (
	NONE     int8 = 0 // thread does not participate in stories
	EXPLICIT int8 = 1 // user explicitly enabled stories for this thread
	IMPLICIT int8 = 2 // enabled implicitly, e.g. by replying to a story
	DISABLED int8 = 3 // user explicitly disabled stories
)

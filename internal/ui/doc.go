// Package ui is the Bubble Tea front end: one page per AppMode, a single
// modal overlay driven by the session's dispatcher, and a SPC leader keymap.
//
// Pages read and mutate the session.Session they are given; the AppModel
// routes simulator events, store results and global keys.
package ui

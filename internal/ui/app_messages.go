package ui

import (
	"demodeck/internal/vercel"
)

// SwitchModeMsg shows another page.
type SwitchModeMsg struct {
	Mode AppMode
}

// CycleModeMsg moves Delta pages along the tab order.
type CycleModeMsg struct {
	Delta int
}

// StartTransferMsg starts (or restarts) the named simulator.
type StartTransferMsg struct {
	ID string
}

// CancelTransferMsg cancels the named simulator; an empty ID means the one
// selected on the Transfers page.
type CancelTransferMsg struct {
	ID string
}

// Page actions reachable from the leader keymap.
type (
	AddToCartMsg       struct{}
	ShareProductMsg    struct{}
	ShowSizeGuideMsg   struct{}
	ToggleSubscribeMsg struct{}
	ToggleLikeMsg      struct{}
	ShareVideoMsg      struct{}
)

// ShowCreateEnvMsg opens the create-env form for the selected project.
type ShowCreateEnvMsg struct{}

// CreateEnvMsg is sent when the create-env form is submitted.
type CreateEnvMsg struct {
	ProjectID string
	Request   vercel.CreateEnvRequest
}

// SelectProjectMsg loads the detail and variables of a project.
type SelectProjectMsg struct {
	ID string
}

// RefreshMsg reloads teams and projects.
type RefreshMsg struct{}

// StoreLoadedMsg reports that a store call finished; the page re-reads the
// store snapshot.
type StoreLoadedMsg struct {
	Op  string
	Err error
}

// EnvCreatedMsg reports the result of a create-env call.
type EnvCreatedMsg struct {
	ProjectID string
	Env       vercel.EnvVar
	Err       error
}

// DismissModalMsg closes the open modal (Esc in a form).
type DismissModalMsg struct{}

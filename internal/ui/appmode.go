package ui

// AppMode is the page currently shown.
type AppMode int

const (
	ModeDashboard AppMode = iota
	ModeProduct
	ModeVideo
	ModeTransfers
	ModeDeployments
)

// Modes lists every page in tab order.
var Modes = []AppMode{ModeDashboard, ModeProduct, ModeVideo, ModeTransfers, ModeDeployments}

func (m AppMode) String() string {
	switch m {
	case ModeDashboard:
		return "Dashboard"
	case ModeProduct:
		return "Product"
	case ModeVideo:
		return "Video"
	case ModeTransfers:
		return "Transfers"
	case ModeDeployments:
		return "Deployments"
	default:
		return "Unknown"
	}
}

// Shift returns the mode delta steps away in tab order, wrapping.
func (m AppMode) Shift(delta int) AppMode {
	n := len(Modes)
	return Modes[((int(m)+delta)%n+n)%n]
}

package modal

import "time"

// CartPayload accompanies KindAddToCart.
type CartPayload struct {
	Product   string
	Size      string
	Color     string
	Quantity  int
	UnitPrice float64
	CartItems int
}

// SharePayload accompanies KindShareProduct and KindShareVideo.
type SharePayload struct {
	Title string
	URL   string
}

// SizeGuidePayload accompanies KindSizeGuide.
type SizeGuidePayload struct {
	Product  string
	Sizes    []SizeRow
	Selected string
}

// SizeRow is one line of a size chart, measurements in centimetres.
type SizeRow struct {
	Size  string
	Chest int
	Waist int
}

// SubscribePayload accompanies KindSubscribe.
type SubscribePayload struct {
	Channel     string
	Subscribers int
}

// TransferPayload accompanies KindUploadComplete, KindDownloadComplete and
// KindTransferCanceled.
type TransferPayload struct {
	Name    string
	File    string
	Bytes   uint64
	Elapsed time.Duration
}

// ReportPayload accompanies KindExportReport.
type ReportPayload struct {
	Name  string
	Range string
	Rows  int
}

// EnvVarPayload accompanies KindEnvCreated.
type EnvVarPayload struct {
	Project string
	Key     string
	Type    string
	Target  []string
}

// ErrorPayload accompanies KindAPIError.
type ErrorPayload struct {
	Op      string
	Message string
}

// Viewer is implemented by interactive payloads (forms) that render
// themselves, such as the KindCreateEnv form.
type Viewer interface {
	View() string
}

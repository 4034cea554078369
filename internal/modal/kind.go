// Package modal holds "which overlay is open and what it carries" and maps
// that pair to a title and body. At most one modal is open at a time.
package modal

// Kind tags a modal variant. The zero Kind means no modal is open.
type Kind string

const (
	KindAddToCart        Kind = "add-to-cart"
	KindShareProduct     Kind = "share-product"
	KindSizeGuide        Kind = "size-guide"
	KindSubscribe        Kind = "subscribe"
	KindShareVideo       Kind = "share-video"
	KindDownloadComplete Kind = "download-complete"
	KindUploadComplete   Kind = "upload-complete"
	KindExportReport     Kind = "export-report"
	KindTransferCanceled Kind = "transfer-cancelled"
	KindCreateEnv        Kind = "create-env"
	KindEnvCreated       Kind = "env-created"
	KindAPIError         Kind = "api-error"
)

// None is the closed state.
const None Kind = ""

func (k Kind) String() string {
	if k == None {
		return "none"
	}
	return string(k)
}

package texture

// Upload error codes reported by the transport. The web client maps these
// numbers to messages, so they must stay stable.
const (
	UploadErrOK        = 0
	UploadErrIniSize   = 1
	UploadErrFormSize  = 2
	UploadErrPartial   = 3
	UploadErrNoFile    = 4
	UploadErrNoTmpDir  = 6
	UploadErrCantWrite = 7
)

// Upload is an incoming file together with the declarations made about it.
// Public is nil when the client did not state a visibility.
type Upload struct {
	Name          string
	Type          AssetType
	Public        *bool
	MimeType      string
	Data          []byte
	TransportCode int
}

package storage

// Config holds the local storage directories
type Config struct {
	UploadDir    string // Root of uploaded rental photos
	ContractsDir string // Generated contract PDFs
}

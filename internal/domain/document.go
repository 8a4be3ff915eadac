package domain

// Result is the structured outcome of a backend call. Failures are returned
// as values with Status "error", never as Go errors to the UI layer.
type Result struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Detail  map[string]any `json:"detail,omitempty"`
}

// Result status constants
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ErrorResult builds an error-valued Result.
func ErrorResult(message string) Result {
	return Result{Status: StatusError, Message: message}
}

// IsError reports whether the result carries a failure.
func (r Result) IsError() bool {
	return r.Status == StatusError
}

// FileRecord identifies a document ingested by the backend. FileID is
// backend-assigned and opaque to this client.
type FileRecord struct {
	FileID   string `json:"file_id"`
	Filename string `json:"filename"`
}

// IndexInfo is the backend's current listing of ingested documents. It is
// never cached: the UI re-fetches it after every mutation.
type IndexInfo struct {
	Status string       `json:"status"`
	Files  []FileRecord `json:"files"`
}

// Filenames projects the listing to display names, in backend order.
func (i *IndexInfo) Filenames() []string {
	names := make([]string, 0, len(i.Files))
	for _, f := range i.Files {
		names = append(names, f.Filename)
	}
	return names
}

// Resolve returns the file_id for a filename. The first match wins when
// filenames collide.
func (i *IndexInfo) Resolve(filename string) (string, bool) {
	for _, f := range i.Files {
		if f.Filename == filename {
			return f.FileID, true
		}
	}
	return "", false
}

package domain

// InvalidRequestError reports a request rejected by local validation.
// It is always raised before any backend call is attempted.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// BackendUnavailableError represents a transport or protocol failure
// reported by the search backend driver. It is surfaced unchanged and
// never retried at this layer.
type BackendUnavailableError struct {
	Op  string
	Err string
}

func (e *BackendUnavailableError) Error() string {
	return e.Op + ": " + e.Err
}

// IndexAdminError represents an index-administration call rejected by
// the backend, carrying the backend's reported cause.
type IndexAdminError struct {
	Op  string
	Err string
}

func (e *IndexAdminError) Error() string {
	return e.Op + ": " + e.Err
}

// RepositoryError represents an error from the record store layer.
type RepositoryError struct {
	Op  string
	Err string
}

func (e *RepositoryError) Error() string {
	return e.Op + ": " + e.Err
}

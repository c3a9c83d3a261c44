package signal

// InsufficientDataError reports a recording that is too short to process or a
// filter request that the sampling rate cannot support. It is recoverable by
// the caller: ask the user for a longer or valid recording.
type InsufficientDataError struct {
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return "insufficient data: " + e.Reason
}

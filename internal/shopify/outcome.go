package shopify

// Outcome is the result of one fetch: either a snapshot or the reason the
// fetch failed. The zero Outcome is a failure with no reason.
type Outcome struct {
	snapshot *Snapshot
	reason   error
}

// Fetched wraps a successfully fetched snapshot.
func Fetched(s Snapshot) Outcome {
	return Outcome{snapshot: &s}
}

// FetchFailed wraps the reason a fetch produced nothing.
func FetchFailed(reason error) Outcome {
	return Outcome{reason: reason}
}

// Snapshot returns the fetched snapshot and whether the fetch succeeded.
func (o Outcome) Snapshot() (Snapshot, bool) {
	if o.snapshot == nil {
		return Snapshot{}, false
	}
	return *o.snapshot, true
}

// Reason returns why the fetch failed, or nil after a successful fetch.
func (o Outcome) Reason() error {
	if o.snapshot != nil {
		return nil
	}
	if o.reason == nil {
		return errNoSnapshot
	}
	return o.reason
}

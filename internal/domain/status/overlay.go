package status

// Overlay is a transient optimistic status shown after a successful mutating
// call, before the refreshed list returns. It sits on top of the
// authoritative status and is discarded by the next authoritative read; it
// must never be merged into persisted state.
type Overlay struct {
	pending Status
	set     bool
}

// Mark records an optimistic status.
func (o *Overlay) Mark(s Status) {
	o.pending = Canonical(string(s))
	o.set = true
}

// View returns the status a screen should display right now.
func (o *Overlay) View(authoritative Status) Status {
	if o.set {
		return o.pending
	}
	return Canonical(string(authoritative))
}

// Resolve applies an authoritative read: the overlay is cleared and the
// server-reported value wins unconditionally.
func (o *Overlay) Resolve(authoritative Status) Status {
	o.pending = ""
	o.set = false
	return Canonical(string(authoritative))
}

// Pending reports whether an optimistic value is currently shown.
func (o *Overlay) Pending() bool { return o.set }

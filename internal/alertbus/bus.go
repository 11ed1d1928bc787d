// Package alertbus fans alert events out to optional external sinks. Every
// backend is best-effort: a publish failure is logged and otherwise has no
// effect on enforcement, which lives entirely in internal/executor.
package alertbus

// Alert is the payload handed to every backend. Timestamp is formatted the
// same way as the dashboard's "YYYY-MM-DD HH:MM:SS" so the two surfaces
// agree when compared side by side.
type Alert struct {
	Type      string
	SrcIP     string
	Reason    string
	Timestamp string
}

// Bus publishes an Alert to zero or more configured backends.
type Bus interface {
	Publish(alert Alert) error
}

// Multi fans out to every backend in order, continuing past individual
// failures so one broken sink can't mask another.
type Multi struct {
	backends []Bus
}

func NewMulti(backends ...Bus) *Multi {
	return &Multi{backends: backends}
}

func (m *Multi) Publish(alert Alert) error {
	var firstErr error
	for _, b := range m.backends {
		if err := b.Publish(alert); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

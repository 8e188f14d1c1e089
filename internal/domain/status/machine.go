package status

import "fmt"

// Machine is the transition table for one entity kind. Transitions are
// requested by invoking the corresponding upstream action; on success the
// entity's status is replaced by the server-reported value. The machine only
// answers whether a reported transition is one the server could legally make,
// it never advances state on its own.
type Machine struct {
	kind        string
	transitions map[Status][]Status
}

func NewMachine(kind string, transitions map[Status][]Status) *Machine {
	return &Machine{kind: kind, transitions: transitions}
}

func (m *Machine) Kind() string { return m.kind }

// Known reports whether s belongs to this entity's closed state set.
func (m *Machine) Known(s Status) bool {
	s = Canonical(string(s))
	if _, ok := m.transitions[s]; ok {
		return true
	}
	for _, outs := range m.transitions {
		for _, o := range outs {
			if o == s {
				return true
			}
		}
	}
	return false
}

// CanTransition reports whether from -> to appears in the table.
// Comparison is case-insensitive; a no-op (from == to) is always allowed
// because authoritative reads may re-report the current status.
func (m *Machine) CanTransition(from, to Status) bool {
	from, to = Canonical(string(from)), Canonical(string(to))
	if from == to {
		return true
	}
	for _, next := range m.transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether s has no outgoing transitions.
func (m *Machine) Terminal(s Status) bool {
	return m.Known(s) && len(m.transitions[Canonical(string(s))]) == 0
}

// Check returns a descriptive error for an illegal transition.
func (m *Machine) Check(from, to Status) error {
	if !m.CanTransition(from, to) {
		return fmt.Errorf("%s: illegal transition %s -> %s", m.kind, Canonical(string(from)), Canonical(string(to)))
	}
	return nil
}

// Transition tables for the four entities of the escalation chain, plus the
// per-record table. These are the only places the state sets are written down.
var (
	FileMachine = NewMachine("uploaded-file", map[Status][]Status{
		Uploaded:         {Validated},
		Validated:        {RequestGenerated},
		RequestGenerated: {},
	})

	RecordMachine = NewMachine("payment-record", map[Status][]Status{
		Uploaded:  {Validated, Failed, Rejected},
		Validated: {},
		Failed:    {},
		Rejected:  {},
	})

	WorkerReceiptMachine = NewMachine("worker-receipt", map[Status][]Status{
		Generated:        {PaymentRequested, Cancelled},
		PaymentRequested: {PaymentInitiated, Cancelled},
		PaymentInitiated: {PaymentProcessed, Cancelled},
		PaymentProcessed: {},
		Cancelled:        {},
	})

	EmployerReceiptMachine = NewMachine("employer-receipt", map[Status][]Status{
		Pending:   {Validated, Rejected},
		Validated: {Processed},
		Processed: {},
		Rejected:  {},
	})

	BoardReceiptMachine = NewMachine("board-receipt", map[Status][]Status{
		Pending:   {Processed, Failed},
		Processed: {},
		Failed:    {},
	})
)

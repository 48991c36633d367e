package namesync

// ChannelFact accumulates what is known about one output channel.
type ChannelFact struct {
	Group    string // "" until known
	Input    int
	HasInput bool
	Name     string
	HasName  bool
	Mode     string // "" until known

	// Requested is set once name/mode queries were sent, or are not needed.
	Requested bool
	// Assigned is set once Name is final.
	Assigned bool
}

func (f *ChannelFact) setName(name string) {
	f.Name = name
	f.HasName = true
}

func (f *ChannelFact) assign(name string) {
	f.setName(name)
	f.Assigned = true
}

// Ledger holds one ChannelFact per output index 1..N. Its size is fixed
// for the lifetime of a transfer.
type Ledger struct {
	facts []ChannelFact
}

// NewLedger returns a ledger for outputs 1..n.
func NewLedger(n int) *Ledger {
	return &Ledger{facts: make([]ChannelFact, n)}
}

// Len returns N.
func (l *Ledger) Len() int {
	return len(l.facts)
}

// Fact returns the fact for output out, or nil if out is not in 1..N.
func (l *Ledger) Fact(out int) *ChannelFact {
	if out < 1 || out > len(l.facts) {
		return nil
	}
	return &l.facts[out-1]
}

// NamedCount returns how many outputs have a name, final or not.
func (l *Ledger) NamedCount() int {
	n := 0
	for i := range l.facts {
		if l.facts[i].HasName {
			n++
		}
	}
	return n
}

// AssignedCount returns how many outputs have a final name.
func (l *Ledger) AssignedCount() int {
	n := 0
	for i := range l.facts {
		if l.facts[i].Assigned {
			n++
		}
	}
	return n
}

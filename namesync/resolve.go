package namesync

import (
	"github.com/scgolang/osc"

	"github.com/scgolang/wingsync/wingosc"
)

// Resolver applies console replies to a Ledger. It does no I/O: every
// method returns the follow-up queries the caller has to send.
type Resolver struct {
	source string
	ledger *Ledger
}

// NewResolver returns a resolver for the outputs of source.
func NewResolver(source string, ledger *Ledger) *Resolver {
	return &Resolver{source: source, ledger: ledger}
}

// Start returns the routing queries for every output.
func (r *Resolver) Start() []osc.Message {
	n := r.ledger.Len()
	msgs := make([]osc.Message, 0, 2*n)
	for out := 1; out <= n; out++ {
		msgs = append(msgs,
			wingosc.OutputGroupQuery(r.source, out),
			wingosc.OutputInputQuery(r.source, out),
		)
	}
	return msgs
}

// Handle applies one reply and returns follow-up queries.
// Replies may arrive in any order.
func (r *Resolver) Handle(reply wingosc.Reply) []osc.Message {
	switch reply.Kind {
	case wingosc.GroupReply, wingosc.InputReply:
		return r.handleRouting(reply)
	case wingosc.NameReply:
		r.handleName(reply)
	case wingosc.ModeReply:
		r.handleMode(reply)
	}
	return nil
}

func (r *Resolver) handleRouting(reply wingosc.Reply) []osc.Message {
	f := r.ledger.Fact(reply.Output)
	if f == nil || f.Assigned {
		return nil
	}
	if reply.Kind == wingosc.GroupReply {
		f.Group = reply.Value
		if f.Group == wingosc.GroupOff {
			f.assign(wingosc.GroupOff)
			return nil
		}
		if wingosc.IsHardcoded(f.Group) {
			f.Requested = true
		}
	} else {
		f.Input = reply.Number
		f.HasInput = true
	}

	switch {
	case f.Group == wingosc.GroupOff:
		return nil
	case wingosc.IsHardcoded(f.Group):
		if f.HasInput {
			r.tryAssign(f)
		}
		return nil
	case f.Group == "" || !f.HasInput || f.Requested:
		return nil
	}

	f.Requested = true
	if wingosc.IsAggregate(f.Group) {
		return []osc.Message{wingosc.AggregateNameQuery(f.Group, wingosc.PairIndex(f.Input))}
	}
	return []osc.Message{
		wingosc.InputNameQuery(f.Group, f.Input),
		wingosc.InputModeQuery(f.Group, f.Input),
	}
}

// handleName names every output fed by the replying strip. Aggregate strips
// are shared by both legs of a pair, so all matches are named. Ordinary
// inputs name the first output still waiting for one.
func (r *Resolver) handleName(reply wingosc.Reply) {
	aggregate := wingosc.IsAggregate(reply.Group)

	for out := 1; out <= r.ledger.Len(); out++ {
		f := r.ledger.Fact(out)
		if f.Assigned || f.Group != reply.Group || !f.HasInput {
			continue
		}
		if aggregate {
			if wingosc.PairIndex(f.Input) != reply.Index {
				continue
			}
		} else if f.Input != reply.Index || f.HasName {
			continue
		}
		f.setName(reply.Value)
		r.tryAssign(f)
		if !aggregate {
			return
		}
	}
}

func (r *Resolver) handleMode(reply wingosc.Reply) {
	for out := 1; out <= r.ledger.Len(); out++ {
		f := r.ledger.Fact(out)
		if f.Assigned || f.Mode != "" || f.Group != reply.Group || !f.HasInput || f.Input != reply.Index {
			continue
		}
		f.Mode = reply.Value
		r.tryAssign(f)
		return
	}
}

// tryAssign finalizes f if enough is known. It is safe to call repeatedly.
func (r *Resolver) tryAssign(f *ChannelFact) {
	if f.Assigned || f.Group == wingosc.GroupOff {
		return
	}
	switch f.Group {
	case wingosc.GroupMonitor:
		if name, ok := wingosc.MonitorName(f.Input); f.HasInput && ok {
			f.assign(name)
		}
		return
	case wingosc.GroupSend:
		if f.HasInput && f.Input > 0 {
			f.assign(wingosc.SendName(f.Input))
		}
		return
	}

	if !f.HasName {
		return
	}
	// Bus-like strips have no mode attribute, so only ordinary inputs wait for it.
	if !wingosc.IsAggregate(f.Group) && f.Mode == "" {
		return
	}
	f.assign(f.Name + wingosc.StereoSuffix(f.Input))
}

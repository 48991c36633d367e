package namesync

import (
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/scgolang/osc"

	"github.com/scgolang/wingsync/wingosc"
)

type route struct {
	group string
	input int
}

// scriptedConsole answers console queries from fixed tables.
type scriptedConsole struct {
	source string
	routes map[int]route
	names  map[string]string // "A/3" or "bus/2" -> name
	modes  map[string]string // "A/3" -> mode
	silent map[int]bool      // outputs whose routing queries go unanswered
}

// newScriptedConsole returns a console with every output of source
// routed to OFF.
func newScriptedConsole(source string) *scriptedConsole {
	c := &scriptedConsole{
		source: source,
		routes: map[int]route{},
		names:  map[string]string{},
		modes:  map[string]string{},
		silent: map[int]bool{},
	}
	for out := 1; out <= wingosc.ChannelCount(source); out++ {
		c.routes[out] = route{group: wingosc.GroupOff, input: 1}
	}
	return c
}

// answer returns the replies to one unprefixed query.
func (c *scriptedConsole) answer(address string) []osc.Message {
	parts := strings.Split(strings.TrimPrefix(address, "/"), "/")
	str := func(v string) []osc.Message {
		return []osc.Message{{Address: address, Arguments: osc.Arguments{osc.String(v)}}}
	}

	switch {
	case len(parts) == 5 && parts[0] == "io" && parts[1] == "out" && parts[2] == c.source:
		out, _ := strconv.Atoi(parts[3])
		r, ok := c.routes[out]
		if !ok || c.silent[out] {
			return nil
		}
		if parts[4] == "grp" {
			return str(r.group)
		}
		return []osc.Message{{Address: address, Arguments: osc.Arguments{osc.Int(int32(r.input))}}}

	case len(parts) == 5 && parts[0] == "io" && parts[1] == "in":
		key := parts[2] + "/" + parts[3]
		table := c.names
		if parts[4] == "mode" {
			table = c.modes
		}
		if v, ok := table[key]; ok {
			return str(v)
		}

	case len(parts) == 3 && parts[2] == "name":
		if v, ok := c.names[parts[0]+"/"+parts[1]]; ok {
			return str(v)
		}
	}
	return nil
}

// fakeLink answers queries from a scriptedConsole without sockets and
// records what is sent to the recorder.
type fakeLink struct {
	console *scriptedConsole
	decoder wingosc.Decoder
	replies chan wingosc.Reply

	mu        sync.Mutex
	queries   []string
	renames   []Strip
	renameErr map[int]error
	queryErr  error
	closes    int
}

func newFakeLink(console *scriptedConsole) *fakeLink {
	return &fakeLink{
		console:   console,
		decoder:   wingosc.Decoder{Source: console.source},
		replies:   make(chan wingosc.Reply, 1024),
		renameErr: map[int]error{},
	}
}

func (l *fakeLink) Query(msg osc.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.queryErr != nil {
		return l.queryErr
	}
	l.queries = append(l.queries, msg.Address)

	for _, m := range l.console.answer(msg.Address) {
		reply, err := l.decoder.Decode(m)
		if err != nil {
			return errors.Wrap(err, "decoding scripted reply")
		}
		l.replies <- reply
	}
	return nil
}

func (l *fakeLink) RenameStrip(index int, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.renameErr[index]; err != nil {
		return err
	}
	l.renames = append(l.renames, Strip{Index: index, Name: name})
	return nil
}

func (l *fakeLink) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.closes++
	return nil
}

func (l *fakeLink) snapshot() (queries []string, renames []Strip, closes int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.queries...), append([]Strip(nil), l.renames...), l.closes
}

// lines collects reported progress lines.
type lines struct {
	mu  sync.Mutex
	all []string
}

func (r *lines) Report(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.all = append(r.all, line)
}

func (r *lines) contains(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.all {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

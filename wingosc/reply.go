package wingosc

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/scgolang/osc"
)

// ReplyKind tells which console fact a Reply carries.
type ReplyKind int

// Reply kinds.
const (
	GroupReply ReplyKind = iota + 1
	InputReply
	NameReply
	ModeReply
)

func (k ReplyKind) String() string {
	switch k {
	case GroupReply:
		return "group"
	case InputReply:
		return "input"
	case NameReply:
		return "name"
	case ModeReply:
		return "mode"
	default:
		return "unknown"
	}
}

// Reply is a decoded console reply.
//
// Group and input replies set Output. Name and mode replies set Group and
// Index; for aggregate groups Index is the stereo pair, not the input.
type Reply struct {
	Kind   ReplyKind
	Output int
	Group  string
	Index  int
	Value  string
	Number int
}

// ErrUnknownAddress is returned for messages that match no reply pattern.
var ErrUnknownAddress = errors.New("unknown reply address")

// Segment placeholders used in replyPatterns.
const (
	segSource = "{source}"
	segOutput = "{output}"
	segGroup  = "{group}"
	segBus    = "{bus}"
	segIndex  = "{index}"
)

type replyPattern struct {
	kind     ReplyKind
	segments []string
}

var replyPatterns = []replyPattern{
	{kind: GroupReply, segments: []string{"io", "out", segSource, segOutput, "grp"}},
	{kind: InputReply, segments: []string{"io", "out", segSource, segOutput, "in"}},
	{kind: NameReply, segments: []string{"io", "in", segGroup, segIndex, "name"}},
	{kind: ModeReply, segments: []string{"io", "in", segGroup, segIndex, "mode"}},
	{kind: NameReply, segments: []string{segBus, segIndex, "name"}},
}

// Decoder turns console messages into replies for one source group.
type Decoder struct {
	Source string
}

// Decode maps msg onto a Reply. It returns ErrUnknownAddress when the
// address belongs to another source group or to nothing we asked for.
func (d Decoder) Decode(msg osc.Message) (Reply, error) {
	parts := strings.Split(strings.TrimPrefix(msg.Address, "/"), "/")

	for _, p := range replyPatterns {
		reply, ok := d.match(p, parts)
		if !ok {
			continue
		}
		if len(msg.Arguments) < 1 {
			return Reply{}, errors.Errorf("%s: expected at least 1 argument", msg.Address)
		}
		if reply.Kind == InputReply {
			n, err := ReadInt(msg.Arguments[0])
			if err != nil {
				return Reply{}, errors.Wrapf(err, "reading input index from %s", msg.Address)
			}
			reply.Number = n
			return reply, nil
		}
		v, err := ReadString(msg.Arguments[0])
		if err != nil {
			return Reply{}, errors.Wrapf(err, "reading value from %s", msg.Address)
		}
		if reply.Kind == ModeReply {
			v = strings.ToUpper(v)
		}
		reply.Value = v
		return reply, nil
	}
	return Reply{}, ErrUnknownAddress
}

func (d Decoder) match(p replyPattern, parts []string) (Reply, bool) {
	if len(parts) != len(p.segments) {
		return Reply{}, false
	}
	reply := Reply{Kind: p.kind}

	for i, seg := range p.segments {
		part := parts[i]

		switch seg {
		case segSource:
			if part != d.Source {
				return Reply{}, false
			}
		case segGroup:
			if part == "" {
				return Reply{}, false
			}
			reply.Group = part
		case segBus:
			group := strings.ToUpper(part)
			if !IsAggregate(group) {
				return Reply{}, false
			}
			reply.Group = group
		case segOutput, segIndex:
			n, err := strconv.Atoi(part)
			if err != nil {
				return Reply{}, false
			}
			if seg == segOutput {
				reply.Output = n
			} else {
				reply.Index = n
			}
		default:
			if part != seg {
				return Reply{}, false
			}
		}
	}
	return reply, true
}

// ReadString reads an argument as text, formatting numbers.
func ReadString(arg osc.Argument) (string, error) {
	if s, err := arg.ReadString(); err == nil {
		return s, nil
	}
	if i, err := arg.ReadInt32(); err == nil {
		return strconv.Itoa(int(i)), nil
	}
	if f, err := arg.ReadFloat32(); err == nil {
		return strconv.FormatFloat(float64(f), 'f', -1, 32), nil
	}
	return "", errors.Errorf("unsupported argument type %c", arg.Typetag())
}

// ReadInt reads an argument as an integer. The console may send indices as
// int, float or string.
func ReadInt(arg osc.Argument) (int, error) {
	if i, err := arg.ReadInt32(); err == nil {
		return int(i), nil
	}
	if f, err := arg.ReadFloat32(); err == nil {
		return int(f), nil
	}
	s, err := arg.ReadString()
	if err != nil {
		return 0, errors.Errorf("unsupported argument type %c", arg.Typetag())
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "parsing %q", s)
	}
	return n, nil
}

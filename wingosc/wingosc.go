// Package wingosc defines the constants, query builders and reply decoder
// used to talk to a WING console over OSC.
package wingosc

import (
	"strconv"
	"strings"

	"github.com/scgolang/osc"
)

// Well-known ports.
const (
	DiscoveryPort    = 2222
	ConsolePort      = 2223
	DefaultLocalPort = 8000
)

// Discovery payloads.
const (
	DiscoveryRequest = "WING?"
	DeviceTag        = "WING"
)

// Console addresses.
const (
	AddressRemote = "/xremote"

	addressOut = "/io/out"
	addressIn  = "/io/in"
)

// Prefix returns the reply-routing prefix that tells the console to answer
// on the given local port.
func Prefix(port int) string {
	return "/%" + strconv.Itoa(port)
}

// WithPrefix returns a copy of msg whose address carries prefix.
func WithPrefix(prefix string, msg osc.Message) osc.Message {
	msg.Address = prefix + msg.Address
	return msg
}

// Remote asks the console to accept remote queries for this session.
func Remote() osc.Message {
	return osc.Message{Address: AddressRemote}
}

// OutputGroupQuery asks which routing group feeds output out of source.
func OutputGroupQuery(source string, out int) osc.Message {
	return query(addressOut, source, strconv.Itoa(out), "grp")
}

// OutputInputQuery asks which input of its group feeds output out of source.
func OutputInputQuery(source string, out int) osc.Message {
	return query(addressOut, source, strconv.Itoa(out), "in")
}

// InputNameQuery asks for the name of an input in an ordinary group.
func InputNameQuery(group string, in int) osc.Message {
	return query(addressIn, group, strconv.Itoa(in), "name")
}

// InputModeQuery asks for the stereo mode of an input in an ordinary group.
func InputModeQuery(group string, in int) osc.Message {
	return query(addressIn, group, strconv.Itoa(in), "mode")
}

// AggregateNameQuery asks for the name of a bus-like strip. pair is the
// stereo pair index, see PairIndex.
func AggregateNameQuery(group string, pair int) osc.Message {
	return query("", strings.ToLower(group), strconv.Itoa(pair), "name")
}

func query(base string, parts ...string) osc.Message {
	return osc.Message{Address: base + "/" + strings.Join(parts, "/")}
}

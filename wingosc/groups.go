package wingosc

import "strconv"

// Routing groups with special handling.
const (
	GroupOff     = "OFF"
	GroupMonitor = "MON"
	GroupSend    = "SEND"
)

// aggregateGroups are addressed as stereo pairs sharing a single name.
var aggregateGroups = map[string]struct{}{
	"MTX":        {},
	"BUS":        {},
	"MAIN":       {},
	GroupMonitor: {},
	GroupSend:    {},
}

// monitorNames covers the fixed monitor outputs. Other monitor inputs
// have no name.
var monitorNames = map[int]string{
	1: "HP L",
	2: "HP R",
	3: "Speaker L",
	4: "Speaker R",
}

// channelCounts maps a source group to its number of outputs.
var channelCounts = map[string]int{
	"USB": 48,
	"MOD": 64,
	"CRD": 64,
}

// DefaultChannelCount applies to any source group not in channelCounts.
const DefaultChannelCount = 48

// IsAggregate reports whether group is addressed in stereo pairs.
func IsAggregate(group string) bool {
	_, ok := aggregateGroups[group]
	return ok
}

// IsHardcoded reports whether names in group are computed locally instead
// of being queried from the console.
func IsHardcoded(group string) bool {
	return group == GroupMonitor || group == GroupSend
}

// MonitorName returns the fixed name of a monitor input.
func MonitorName(in int) (string, bool) {
	name, ok := monitorNames[in]
	return name, ok
}

// SendName returns the name of an FX send output fed by input in.
func SendName(in int) string {
	return "FX Send " + strconv.Itoa(PairIndex(in))
}

// PairIndex returns the 1-based stereo pair that contains input in.
func PairIndex(in int) int {
	return (in + 1) / 2
}

// StereoSuffix returns " L" for odd inputs and " R" for even ones.
func StereoSuffix(in int) string {
	if in%2 == 1 {
		return " L"
	}
	return " R"
}

// ChannelCount returns the number of outputs of a source group.
func ChannelCount(source string) int {
	if n, ok := channelCounts[source]; ok {
		return n
	}
	return DefaultChannelCount
}

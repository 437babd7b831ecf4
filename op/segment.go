package op

import "sort"

// Segment is a named region of VM-visible memory.
type Segment uint8

const (
	InvalidSegment Segment = iota
	Local
	Argument
	This
	That
	Constant
	Static
	Temp
	Pointer
)

var segmentNames = map[Segment]string{
	Local:    "local",
	Argument: "argument",
	This:     "this",
	That:     "that",
	Constant: "constant",
	Static:   "static",
	Temp:     "temp",
	Pointer:  "pointer",
}

var segmentsByName = map[string]Segment{}

func init() {
	for seg, name := range segmentNames {
		segmentsByName[name] = seg
	}
}

// LookupSegment returns the segment with the given name.
func LookupSegment(name string) (Segment, bool) {
	seg, ok := segmentsByName[name]
	return seg, ok
}

// SegmentNames returns the names of all segments, sorted.
func SegmentNames() []string {
	names := make([]string, 0, len(segmentsByName))
	for name := range segmentsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s Segment) String() string {
	return segmentNames[s]
}

package enrollment

import (
	"sort"
	"strconv"
)

// Sex keys as they appear in the JSON output
const (
	Hombres = "hombres"
	Mujeres = "mujeres"
)

// AgeBuckets lists the age histogram keys in report column order.
// 18 counts students aged 18 or younger, 30 covers 30-34, 35 covers 35-39
// and 40 covers 40 and over.
var AgeBuckets = [15]int{18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 35, 40}

// Channels lists the access-channel labels in report column order
var Channels = [6]string{"PAU", "Credencial", "F.P.", "Titulados", "Mayores 25", "Otros"}

// Total is an enrollment count that may be unknown when the source cell
// could not be read as a number. Unknown totals encode as JSON null.
type Total struct {
	Value int
	Known bool
}

// KnownTotal returns a Total holding n
func KnownTotal(n int) Total {
	return Total{Value: n, Known: true}
}

// UnknownTotal returns a Total with no value
func UnknownTotal() Total {
	return Total{}
}

// String renders the total for messages
func (t Total) String() string {
	if !t.Known {
		return "unknown"
	}
	return strconv.Itoa(t.Value)
}

// MarshalJSON encodes the total as a number or null
func (t Total) MarshalJSON() ([]byte, error) {
	if !t.Known {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(t.Value)), nil
}

// AgeHistogram maps an age bucket key to its enrollment count
type AgeHistogram map[int]int

// NewAgeHistogram builds a histogram from counts given in AgeBuckets order
func NewAgeHistogram(counts [15]int) AgeHistogram {
	h := make(AgeHistogram, len(AgeBuckets))
	for i, bucket := range AgeBuckets {
		h[bucket] = counts[i]
	}
	return h
}

// Sum returns the total count across all buckets
func (h AgeHistogram) Sum() int {
	sum := 0
	for _, n := range h {
		sum += n
	}
	return sum
}

// AgeBucket returns the histogram key an age falls into
func AgeBucket(age int) int {
	switch {
	case age <= 18:
		return 18
	case age < 30:
		return age
	case age < 35:
		return 30
	case age < 40:
		return 35
	default:
		return 40
	}
}

// ChannelHistogram maps an access-channel label to its enrollment count
type ChannelHistogram map[string]int

// NewChannelHistogram builds a histogram from counts given in Channels order
func NewChannelHistogram(counts [6]int) ChannelHistogram {
	h := make(ChannelHistogram, len(Channels))
	for i, label := range Channels {
		h[label] = counts[i]
	}
	return h
}

// Sum returns the total count across all channels
func (h ChannelHistogram) Sum() int {
	sum := 0
	for _, n := range h {
		sum += n
	}
	return sum
}

// SexBreakdown holds the enrollments of one sex within a degree program
type SexBreakdown struct {
	Total     int              `json:"total"`
	Edades    AgeHistogram     `json:"edades,omitempty"`
	ViaAcceso ChannelHistogram `json:"via_acceso,omitempty"`
}

// Degree is the aggregated record of one degree program
type Degree struct {
	Total   Total        `json:"total"`
	Hombres SexBreakdown `json:"hombres"`
	Mujeres SexBreakdown `json:"mujeres"`
}

// NewDegree creates a Degree with the given program total and empty breakdowns
func NewDegree(total Total) *Degree {
	return &Degree{Total: total}
}

// Sex returns the breakdown for the given sex key, or nil for an unknown key
func (d *Degree) Sex(key string) *SexBreakdown {
	switch key {
	case Hombres:
		return &d.Hombres
	case Mujeres:
		return &d.Mujeres
	default:
		return nil
	}
}

// Report maps program names to their aggregated records
type Report map[string]*Degree

// Programs returns the program names in sorted order
func (r Report) Programs() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package cggtts

import (
	"fmt"
	"sort"

	"github.com/de-bkg/gocggtts/pkg/gnss"
)

// DelayKind distinguishes the two per-code delay specifications a CGGTTS
// header can carry.
type DelayKind int

// Delay kinds.
const (
	DelayKindInternal DelayKind = iota + 1 // INT DLY, receiver internal delay
	DelayKindSystem                        // SYS DLY, antenna to receiver reference point
)

func (k DelayKind) String() string {
	return [...]string{"", "INT", "SYS"}[k]
}

// Delay is a calibrated equipment delay in nanoseconds.
type Delay struct {
	Kind  DelayKind `yaml:"kind"`
	Value float64   `yaml:"value"` // [ns]
}

// ValueSeconds returns the delay in seconds.
func (d Delay) ValueSeconds() float64 {
	return d.Value * 1e-9
}

// AddValue adds rhs nanoseconds to the delay.
func (d *Delay) AddValue(rhs float64) {
	d.Value += rhs
}

func (d Delay) String() string {
	return fmt.Sprintf("%s %.1f ns", d.Kind, d.Value)
}

// SystemDelay describes the total measurement system delay of a station.
// All values are given in nanoseconds.
type SystemDelay struct {
	CabDelay float64             `yaml:"cabDelay"`        // antenna cable delay
	RefDelay float64             `yaml:"refDelay"`        // local clock to receiver reference delay
	CalID    string              `yaml:"calID,omitempty"` // calibration identifier, empty if not applicable
	Delays   map[gnss.Code]Delay `yaml:"delays"`          // per observation code delays
}

// NewSystemDelay returns an empty system delay table.
func NewSystemDelay() SystemDelay {
	return SystemDelay{Delays: map[gnss.Code]Delay{}}
}

// TotalDelay returns the total delay cable + reference + per-code delay for
// the given observation code.
// The second return value reports whether the code is present in the table;
// a code without a per-code delay entry has no computable total delay.
func (sd SystemDelay) TotalDelay(code gnss.Code) (float64, bool) {
	dly, ok := sd.Delays[code]
	if !ok {
		return 0, false
	}
	return sd.CabDelay + sd.RefDelay + dly.Value, true
}

// TotalDelayEntry pairs an observation code with its total delay in nanoseconds.
type TotalDelayEntry struct {
	Code  gnss.Code
	Value float64
}

// TotalDelays groups the total delays of all codes present in the table,
// ordered by code.
func (sd SystemDelay) TotalDelays() []TotalDelayEntry {
	totals := make([]TotalDelayEntry, 0, len(sd.Delays))
	for code := range sd.Delays {
		total, _ := sd.TotalDelay(code)
		totals = append(totals, TotalDelayEntry{Code: code, Value: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Code < totals[j].Code })
	return totals
}

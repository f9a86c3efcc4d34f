// Package gnss contains common constants and type definitions.
package gnss

// System is a satellite system.
type System int

// Available satellite systems.
const (
	SysGPS System = iota + 1
	SysGLO
	SysGAL
	SysQZSS
	SysBDS
	SysIRNSS
	SysSBAS
)

func (sys System) String() string {
	return [...]string{"", "GPS", "GLO", "GAL", "QZSS", "BDS", "IRNSS", "SBAS"}[sys]
}

// Abbr returns the systems' one character abbreviation used in satellite identifiers.
func (sys System) Abbr() string {
	return [...]string{"", "G", "R", "E", "J", "C", "I", "S"}[sys]
}

// Code is a GNSS observation code, a signal/frequency combination.
type Code int

// Observation codes used in CGGTTS delay tables.
const (
	CodeC1 Code = iota + 1
	CodeC2
	CodeP1
	CodeP2
	CodeE1
	CodeE5
	CodeB1
	CodeB2
)

func (c Code) String() string {
	return [...]string{"", "C1", "C2", "P1", "P2", "E1", "E5", "B1", "B2"}[c]
}

var codePerName = map[string]Code{
	"C1": CodeC1,
	"C2": CodeC2,
	"P1": CodeP1,
	"P2": CodeP2,
	"E1": CodeE1,
	"E5": CodeE5,
	"B1": CodeB1,
	"B2": CodeB2,
}

// CodeFromString returns the observation code for its designation, e.g. "C1".
func CodeFromString(s string) (Code, bool) {
	code, ok := codePerName[s]
	return code, ok
}

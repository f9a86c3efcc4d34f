package cggtts

import (
	"regexp"
	"strings"
)

var utckPattern = regexp.MustCompile(`UTC\((\s*\w+\s*)\)`)

// ReferenceTimeSystem enumerates the reference time systems a CGGTTS header
// can designate.
type ReferenceTimeSystem int

// Reference time systems.
const (
	RefUTC ReferenceTimeSystem = iota + 1 // Coordinated Universal Time
	RefTAI                                // International Atomic Time
	RefUTCk                               // laboratory realization of UTC
	RefCustom                             // any other designation
)

// ReferenceTime is the reference time system of the local clock.
type ReferenceTime struct {
	System ReferenceTimeSystem `yaml:"system"`
	// Lab holds the laboratory for UTC(k) realizations, or the verbatim
	// designation for custom systems.
	Lab string `yaml:"lab,omitempty"`
}

// UTC returns the Coordinated Universal Time reference.
func UTC() ReferenceTime { return ReferenceTime{System: RefUTC} }

// TAI returns the International Atomic Time reference.
func TAI() ReferenceTime { return ReferenceTime{System: RefTAI} }

// UTCk returns the laboratory realization of UTC for the given lab.
func UTCk(lab string) ReferenceTime {
	return ReferenceTime{System: RefUTCk, Lab: lab}
}

// CustomReferenceTime returns a custom reference time designation.
func CustomReferenceTime(s string) ReferenceTime {
	return ReferenceTime{System: RefCustom, Lab: s}
}

func (ref ReferenceTime) String() string {
	switch ref.System {
	case RefUTC:
		return "UTC"
	case RefTAI:
		return "TAI"
	case RefUTCk:
		return "UTC(" + ref.Lab + ")"
	}
	return ref.Lab
}

// ParseReferenceTime interprets the value of a REF header line.
// Designations that are neither TAI, UTC nor a UTC(k) realization are kept
// verbatim as a custom system.
func ParseReferenceTime(s string) ReferenceTime {
	switch s {
	case "tai":
		return TAI()
	case "utc":
		return UTC()
	}
	if m := utckPattern.FindStringSubmatch(s); m != nil {
		return UTCk(strings.TrimSpace(m[1]))
	}
	return CustomReferenceTime(s)
}

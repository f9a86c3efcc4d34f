// Package cggtts provides functions for reading CGGTTS files, the BIPM
// standard format for exchanging GNSS common-view time transfer results
// between timing laboratories.
package cggtts

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	// CurrentVersion is the latest version of the CGGTTS format. It is the
	// only numbered version this package reads.
	CurrentVersion = "2E"

	// defaultStation is the station name used when the header carries none.
	defaultStation = "LAB"
)

// errors
var (
	// ErrUnsupportedVersion is returned for files whose version line does not
	// declare a supported CGGTTS version.
	ErrUnsupportedVersion = errors.New("cggtts: unsupported version")

	// ErrMalformedHeaderField is returned when a structurally required header
	// field does not match its pattern.
	ErrMalformedHeaderField = errors.New("cggtts: malformed header field")

	// ErrInvalidRecordLength is returned for track lines with a field count
	// other than 12, 21 or 24.
	ErrInvalidRecordLength = errors.New("cggtts: invalid track record length")

	// ErrInvalidTimeFormat is returned for track lines whose MJD or HHMMSS
	// date fields cannot be interpreted.
	ErrInvalidTimeFormat = errors.New("cggtts: invalid track time format")

	// ErrNotTextEncoded is returned when the input buffer is no valid text.
	ErrNotTextEncoded = errors.New("cggtts: input is not text encoded")
)

// Version is the CGGTTS format version.
type Version int

// Supported format versions. VersionRaw covers the 30s raw clock results
// written by tools like R2CGGTTS.
const (
	Version2E Version = iota + 1
	VersionRaw
)

func (v Version) String() string {
	return [...]string{"", "2E", "RAW"}[v]
}

// Coordinates are antenna phase center coordinates in meters.
type Coordinates struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.3f %.3f %.3f", c.X, c.Y, c.Z)
}

// Header stores the CGGTTS header including the system delay table.
// That header is exposed as a field of the Decoder and of the decoded CGGTTS.
type Header struct {
	Version        Version       `yaml:"version" validate:"required"`
	ReleaseDate    time.Time     `yaml:"releaseDate,omitempty"` // REV DATE, zero if absent
	Station        string        `yaml:"station" validate:"required"`
	Receiver       string        `yaml:"receiver,omitempty"` // receiver identity, empty if absent
	NumChannels    int           `yaml:"numChannels"`
	IMS            string        `yaml:"ims,omitempty"` // ionospheric measurement system, empty if absent
	ReferenceTime  ReferenceTime `yaml:"referenceTime"`
	ReferenceFrame string        `yaml:"referenceFrame,omitempty"`
	APCCoordinates Coordinates   `yaml:"apcCoordinates"`
	Comments       string        `yaml:"comments,omitempty"`
	Delay          SystemDelay   `yaml:"delay"`
}

// CGGTTS holds one decoded file: the header and the tracks in file order.
type CGGTTS struct {
	Header `yaml:",inline"`
	Tracks []Track `yaml:"tracks"`
}

// use a single instance of Validate, it caches struct info
var validate *validator.Validate

// Validate validates the decoded document.
func (c *CGGTTS) Validate() error {
	if validate == nil {
		validate = validator.New()
	}
	return validate.Struct(c)
}

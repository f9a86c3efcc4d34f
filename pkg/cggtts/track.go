package cggtts

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/de-bkg/gocggtts/pkg/gnss"
)

// Field counts of the three track record layouts.
const (
	numFieldsRaw      = 12 // 30s raw clock results
	numFieldsStandard = 21 // standard track without ionospheric terms
	numFieldsWithIono = 24 // standard track with ionospheric terms
)

// The measurements are stored as fixed-point integers on the wire.
const (
	scale01ns = 0.1e-9  // fields given in 0.1 ns, scaled to seconds
	scale01ps = 0.1e-12 // slope fields given in 0.1 ps/s, scaled to s/s
)

// mjdEpoch is MJD 0 (1858-11-17 00:00:00 UTC).
var mjdEpoch = time.Date(1858, 11, 17, 0, 0, 0, 0, time.UTC)

var sysPerAbbr = map[string]gnss.System{
	"G": gnss.SysGPS,
	"R": gnss.SysGLO,
	"E": gnss.SysGAL,
	"J": gnss.SysQZSS,
	"C": gnss.SysBDS,
	"I": gnss.SysIRNSS,
	"S": gnss.SysSBAS,
}

// CommonViewClass is the kind of common-view system a track was taken with.
type CommonViewClass int

// Common-view classes. The zero value means unspecified, as in raw files.
const (
	ClassSingleChannel CommonViewClass = iota + 1 // "99"
	ClassMultiChannel                             // "FF"
)

func (c CommonViewClass) String() string {
	return [...]string{"", "99", "FF"}[c]
}

func parseCommonViewClass(s string) (CommonViewClass, error) {
	switch s {
	case "99":
		return ClassSingleChannel, nil
	case "FF":
		return ClassMultiChannel, nil
	}
	return 0, fmt.Errorf("cggtts: unknown common view class %q", s)
}

// TrackData holds the measurement block of one track. All values are scaled
// to seconds resp. seconds per second for the slopes. A field is nil if the
// record layout omits it or its token did not parse as a number, which is how
// files flag unavailable values.
type TrackData struct {
	RefSV  *float64 `yaml:"refsv,omitempty"`  // difference to the reference SV [s]
	SRSV   *float64 `yaml:"srsv,omitempty"`   // slope of RefSV [s/s]
	RefSys *float64 `yaml:"refsys,omitempty"` // difference to the reference system [s]
	SRSys  *float64 `yaml:"srsys,omitempty"`  // slope of RefSys [s/s]
	DSG    *float64 `yaml:"dsg,omitempty"`    // RMS of the residuals to the linear fit [s]
	IOE    *uint16  `yaml:"ioe,omitempty"`    // issue of ephemeris used for the computation
	MDTR   *float64 `yaml:"mdtr,omitempty"`   // modeled tropospheric delay [s]
	SMDT   *float64 `yaml:"smdt,omitempty"`   // slope of MDTR [s/s]
	MDIO   *float64 `yaml:"mdio,omitempty"`   // modeled ionospheric delay [s]
	SMDI   *float64 `yaml:"smdi,omitempty"`   // slope of MDIO [s/s]
}

// IonosphericData holds the measured ionospheric terms of a track.
type IonosphericData struct {
	MSIO *float64 `yaml:"msio,omitempty"` // measured ionospheric delay [s]
	SMSI *float64 `yaml:"smsi,omitempty"` // slope of MSIO [s/s]
	ISG  *float64 `yaml:"isg,omitempty"`  // RMS of the ionospheric residuals [s]
}

// Track is one CGGTTS measurement, i.e. one common-view pass.
type Track struct {
	Class     CommonViewClass  `yaml:"class,omitempty"`    // zero in raw files
	Epoch     time.Time        `yaml:"epoch"`              // track start, built from MJD and HHMMSS
	Duration  time.Duration    `yaml:"duration,omitempty"` // tracking duration, zero in raw files
	SV        string           `yaml:"sv"`                 // satellite vehicle identifier, e.g. G05
	Elevation float64          `yaml:"elevation"`          // elevation at track midpoint [deg]
	Azimuth   float64          `yaml:"azimuth"`            // azimuth at track midpoint [deg]
	Data      TrackData        `yaml:"data"`
	Iono      *IonosphericData `yaml:"iono,omitempty"` // nil without ionospheric terms
	FR        *uint8           `yaml:"fr,omitempty"`   // GLONASS frequency channel, nil in raw files
	HC        *uint8           `yaml:"hc,omitempty"`   // hardware channel, nil in raw files
	FRC       string           `yaml:"frc"`            // carrier frequency standard code, e.g. L1C
}

// System returns the satellite system of the tracked SV, derived from the
// first character of the identifier. It returns zero for unknown systems.
func (trk *Track) System() gnss.System {
	if trk.SV == "" {
		return 0
	}
	return sysPerAbbr[trk.SV[:1]]
}

// ParseTrack decodes a single track line. The record layout, standard with or
// without ionospheric terms or 30s raw, is determined by the field count.
func ParseTrack(s string) (*Track, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case numFieldsWithIono:
		return parseStandardTrack(fields, true)
	case numFieldsStandard:
		return parseStandardTrack(fields, false)
	case numFieldsRaw:
		return parseRawTrack(fields)
	}
	return nil, fmt.Errorf("%w: %d fields", ErrInvalidRecordLength, len(fields))
}

// parseStandardTrack decodes the 21 and 24 field layouts:
// SAT CL MJD STTIME TRKL ELV AZTH REFSV SRSV REFSYS SRSYS DSG IOE MDTR SMDT
// MDIO SMDI [MSIO SMSI ISG] FR HC FRC CK
func parseStandardTrack(fields []string, withIono bool) (*Track, error) {
	trk := &Track{SV: fields[0]}

	class, err := parseCommonViewClass(fields[1])
	if err != nil {
		return nil, err
	}
	trk.Class = class

	trk.Epoch, err = parseTrackEpoch(fields[2], fields[3])
	if err != nil {
		return nil, err
	}

	if secs, err := strconv.ParseFloat(fields[4], 64); err == nil {
		trk.Duration = time.Duration(secs * 1e9)
	}

	trk.Elevation = parseDeciDegrees(fields[5])
	trk.Azimuth = parseDeciDegrees(fields[6])
	trk.Data = parseTrackData(fields[7:17])

	next := 17
	if withIono {
		trk.Iono = &IonosphericData{
			MSIO: parseMeasurement(fields[17], scale01ns),
			SMSI: parseMeasurement(fields[18], scale01ps),
			ISG:  parseMeasurement(fields[19], scale01ns),
		}
		next = 20
	}

	trk.FR = parseChannel(fields[next])
	trk.HC = parseChannel(fields[next+1])
	trk.FRC = fields[next+2]
	// fields[next+3] is the line checksum; it is read but not verified.

	return trk, nil
}

// parseRawTrack decodes the 12 field layout of 30s raw clock results:
// SAT MJD STTIME ELV AZTH REFSV REFSYS IOE MDTR MDIO MSIO FRC
// Raw records carry no common-view class, duration or channel fields.
func parseRawTrack(fields []string) (*Track, error) {
	trk := &Track{SV: fields[0]}

	var err error
	trk.Epoch, err = parseTrackEpoch(fields[1], fields[2])
	if err != nil {
		return nil, err
	}

	trk.Elevation = parseDeciDegrees(fields[3])
	trk.Azimuth = parseDeciDegrees(fields[4])
	trk.Data = TrackData{
		RefSV:  parseMeasurement(fields[5], scale01ns),
		RefSys: parseMeasurement(fields[6], scale01ns),
		IOE:    parseIOE(fields[7]),
		MDTR:   parseMeasurement(fields[8], scale01ns),
		MDIO:   parseMeasurement(fields[9], scale01ns),
	}
	trk.Iono = &IonosphericData{MSIO: parseMeasurement(fields[10], scale01ns)}
	trk.FRC = fields[11]

	return trk, nil
}

func parseTrackData(fields []string) TrackData {
	return TrackData{
		RefSV:  parseMeasurement(fields[0], scale01ns),
		SRSV:   parseMeasurement(fields[1], scale01ps),
		RefSys: parseMeasurement(fields[2], scale01ns),
		SRSys:  parseMeasurement(fields[3], scale01ps),
		DSG:    parseMeasurement(fields[4], scale01ns),
		IOE:    parseIOE(fields[5]),
		MDTR:   parseMeasurement(fields[6], scale01ns),
		SMDT:   parseMeasurement(fields[7], scale01ps),
		MDIO:   parseMeasurement(fields[8], scale01ns),
		SMDI:   parseMeasurement(fields[9], scale01ps),
	}
}

// parseTrackEpoch builds the track start time from the MJD and HHMMSS fields.
func parseTrackEpoch(mjdField, sttime string) (time.Time, error) {
	if len(sttime) < 6 {
		return time.Time{}, fmt.Errorf("%w: start time %q", ErrInvalidTimeFormat, sttime)
	}

	mjd, err := strconv.Atoi(mjdField)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: mjd %q", ErrInvalidTimeFormat, mjdField)
	}

	hh, err1 := strconv.Atoi(sttime[0:2])
	mm, err2 := strconv.Atoi(sttime[2:4])
	ss, err3 := strconv.Atoi(sttime[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, fmt.Errorf("%w: start time %q", ErrInvalidTimeFormat, sttime)
	}

	return mjdEpoch.AddDate(0, 0, mjd).Add(time.Duration(hh)*time.Hour +
		time.Duration(mm)*time.Minute + time.Duration(ss)*time.Second), nil
}

// parseMeasurement parses a fixed-point measurement field and applies its
// scale. Unparseable fields, e.g. unavailable-value placeholders, yield nil.
func parseMeasurement(field string, scale float64) *float64 {
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	v := f * scale
	return &v
}

func parseIOE(field string) *uint16 {
	i, err := strconv.ParseInt(field, 10, 32)
	if err != nil || i < 0 || i > 999 {
		return nil
	}
	v := uint16(i)
	return &v
}

func parseChannel(field string) *uint8 {
	i, err := strconv.ParseInt(field, 10, 16)
	if err != nil || i < 0 || i > 255 {
		return nil
	}
	v := uint8(i)
	return &v
}

// parseDeciDegrees parses an angle given in 0.1 degrees. Unparseable fields
// yield zero.
func parseDeciDegrees(field string) float64 {
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0
	}
	return f * 0.1
}

package cggtts

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/de-bkg/gocggtts/pkg/gnss"
	"github.com/mholt/archiver/v3"
)

// rawVersionLine introduces files with 30s raw clock results as written by
// R2CGGTTS. Such files carry no version number.
const rawVersionLine = "RAW CLOCK RESULTS"

var (
	versionPattern  = regexp.MustCompile(`CGGTTS\s+GENERIC DATA FORMAT VERSION = (\w+)`)
	revDatePattern  = regexp.MustCompile(`REV DATE = (\d{4})-(\d{2})-(\d{2})`)
	receiverPattern = regexp.MustCompile(`RCVR = (\w+)`)
	channelsPattern = regexp.MustCompile(`CH = (\d+)`)
	imsPattern      = regexp.MustCompile(`IMS = (\w+) (\w+) (\w+) (\d+) (\w+)`)
	refPattern      = regexp.MustCompile(`REF = (.+)`)
	coordPattern    = regexp.MustCompile(`[XYZ] =\s+([+-]?\d+\.\d+)`)
)

// Decoder reads and decodes header and track records from a CGGTTS input stream.
type Decoder struct {
	// The Header is valid after NewDecoder.
	Header  Header
	sc      *bufio.Scanner
	trk     *Track
	lineNum int
	err     error
}

// NewDecoder creates a new decoder for CGGTTS data.
// The header will be read implicitly, including the version line and the
// three structural lines that follow the checksum line.
//
// It is the caller's responsibility to call Close on the underlying reader when done!
func NewDecoder(r io.Reader) (*Decoder, error) {
	dec := &Decoder{sc: bufio.NewScanner(r)}
	dec.Header, dec.err = dec.readHeader()
	return dec, dec.err
}

// readHeader reads the version line and the header lines up to the checksum
// line. Unknown header fields are skipped, the format is extended regularly.
func (dec *Decoder) readHeader() (hdr Header, err error) {
	hdr = Header{
		Station:       defaultStation,
		ReferenceTime: UTC(),
		Delay:         NewSystemDelay(),
	}

	// The version always comes first and selects the grammar of everything below.
	if ok := dec.readLine(); !ok {
		if err := dec.sc.Err(); err != nil {
			return hdr, err
		}
		return hdr, fmt.Errorf("%w: empty input", ErrUnsupportedVersion)
	}
	line := dec.line()
	if strings.HasPrefix(line, rawVersionLine) {
		hdr.Version = VersionRaw
	} else if m := versionPattern.FindStringSubmatch(line); m != nil {
		if m[1] != CurrentVersion {
			return hdr, fmt.Errorf("%w: %q", ErrUnsupportedVersion, m[1])
		}
		hdr.Version = Version2E
	} else {
		return hdr, fmt.Errorf("%w: no version line: %q", ErrUnsupportedVersion, line)
	}

readln:
	for dec.readLine() {
		line := dec.line()

		switch {
		case strings.HasPrefix(line, "REV DATE = "):
			m := revDatePattern.FindStringSubmatch(line)
			if m == nil {
				return hdr, fmt.Errorf("%w: line %d: %q", ErrMalformedHeaderField, dec.lineNum, line)
			}
			year, _ := strconv.Atoi(m[1])
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			hdr.ReleaseDate = time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		case strings.HasPrefix(line, "RCVR = "):
			if m := receiverPattern.FindStringSubmatch(line); m != nil {
				hdr.Receiver = m[1]
			}
		case strings.HasPrefix(line, "CH = "):
			if m := channelsPattern.FindStringSubmatch(line); m != nil {
				hdr.NumChannels, _ = strconv.Atoi(m[1])
			}
		case strings.HasPrefix(line, "IMS = "):
			if m := imsPattern.FindStringSubmatch(line); m != nil {
				hdr.IMS = m[1]
			}
		case strings.HasPrefix(line, "LAB = "):
			if s := strings.TrimSpace(strings.TrimPrefix(line, "LAB = ")); s != "" {
				hdr.Station = s
			}
		case strings.HasPrefix(line, "X = "):
			if m := coordPattern.FindStringSubmatch(line); m != nil {
				hdr.APCCoordinates.X, _ = strconv.ParseFloat(m[1], 64)
			}
		case strings.HasPrefix(line, "Y = "):
			if m := coordPattern.FindStringSubmatch(line); m != nil {
				hdr.APCCoordinates.Y, _ = strconv.ParseFloat(m[1], 64)
			}
		case strings.HasPrefix(line, "Z = "):
			if m := coordPattern.FindStringSubmatch(line); m != nil {
				hdr.APCCoordinates.Z, _ = strconv.ParseFloat(m[1], 64)
			}
		case strings.HasPrefix(line, "FRAME = "):
			if f := strings.TrimSpace(strings.TrimPrefix(line, "FRAME = ")); f != "?" {
				hdr.ReferenceFrame = f
			}
		case strings.HasPrefix(line, "COMMENTS = "):
			if c := strings.TrimSpace(strings.TrimPrefix(line, "COMMENTS = ")); c != "" && c != "NO COMMENTS" {
				hdr.Comments = c
			}
		case strings.HasPrefix(line, "REF = "):
			if m := refPattern.FindStringSubmatch(line); m != nil {
				hdr.ReferenceTime = ParseReferenceTime(m[1])
			}
		case strings.Contains(line, "DLY = "):
			dec.parseDelayLine(&hdr.Delay, line)
		case strings.HasPrefix(line, "CKSUM = "):
			// TODO process the checksum
			break readln
		default:
			if strings.TrimSpace(line) != "" {
				log.Printf("cggtts: line %d: header field not handled: %q", dec.lineNum, line)
			}
		}
	}

	if err := dec.sc.Err(); err != nil {
		return hdr, err
	}

	// The checksum line is followed by a blank separator, the column label
	// line and the units line. Discard them before the track section starts.
	for i := 0; i < 3; i++ {
		if ok := dec.readLine(); !ok {
			break
		}
	}

	return hdr, dec.sc.Err()
}

// parseDelayLine decodes one "DLY =" header line into the delay table.
// Malformed delay lines are skipped, not fatal.
func (dec *Decoder) parseDelayLine(sd *SystemDelay, line string) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		log.Printf("cggtts: line %d: short delay line: %q", dec.lineNum, line)
		return
	}

	value, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		log.Printf("cggtts: line %d: parse delay value: %v", dec.lineNum, err)
		return
	}

	switch fields[0] {
	case "CAB":
		sd.CabDelay = value
	case "REF":
		sd.RefDelay = value
	case "SYS", "INT":
		if strings.Contains(line, "CAL_ID") {
			if id := strings.TrimSpace(line[strings.LastIndex(line, "=")+1:]); id != "" && id != "NA" {
				sd.CalID = id
			}
		}
		if len(fields) < 7 {
			return
		}

		kind := DelayKindSystem
		if fields[0] == "INT" {
			kind = DelayKindInternal
		}

		// Dual-carrier lines list a second code after a comma; only the
		// first carrier is recorded.
		// TODO capture the second carrier once the authoritative format
		// definition settles how multi-code delay tables combine.
		code := strings.TrimRight(fields[6], "),")
		if c, ok := gnss.CodeFromString(code); ok {
			sd.Delays[c] = Delay{Kind: kind, Value: value}
		} else {
			log.Printf("cggtts: line %d: unknown observation code %q", dec.lineNum, code)
		}
	}
}

// NextTrack reads the next track record.
// It returns false when the scan stops, either by reaching the end of the
// input or a fatal decode error.
func (dec *Decoder) NextTrack() bool {
	if dec.err != nil {
		return false
	}

	for dec.readLine() {
		line := dec.line()
		if strings.TrimSpace(line) == "" {
			continue
		}

		trk, err := ParseTrack(line)
		if err != nil {
			dec.setErr(fmt.Errorf("cggtts: line %d: %w", dec.lineNum, err))
			return false
		}
		dec.trk = trk
		return true
	}

	if err := dec.sc.Err(); err != nil {
		dec.setErr(fmt.Errorf("cggtts: read track: %v", err))
	}
	return false
}

// Track returns the most recent track generated by a call to NextTrack.
func (dec *Decoder) Track() *Track {
	return dec.trk
}

// Err returns the first non-EOF error that was encountered by the decoder.
func (dec *Decoder) Err() error {
	if dec.err == io.EOF {
		return nil
	}
	return dec.err
}

// setErr adds an error.
func (dec *Decoder) setErr(err error) {
	dec.err = errors.Join(dec.err, err)
}

// readLine reads the next line into buffer. It returns false if an error
// occurs or EOF was reached.
func (dec *Decoder) readLine() bool {
	if ok := dec.sc.Scan(); !ok {
		return ok
	}
	dec.lineNum++
	return true
}

// line returns the current line.
func (dec *Decoder) line() string {
	return dec.sc.Text()
}

// DecodeString decodes a complete CGGTTS file held in s.
// It returns the decoded document or the first fatal error; documents are
// never returned partially.
func DecodeString(s string) (*CGGTTS, error) {
	dec, err := NewDecoder(strings.NewReader(s))
	if err != nil {
		return nil, err
	}

	doc := &CGGTTS{Header: dec.Header}
	for dec.NextTrack() {
		doc.Tracks = append(doc.Tracks, *dec.Track())
	}
	if err := dec.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode decodes a complete CGGTTS file held in data. The buffer must be
// text encoded, i.e. valid UTF-8 resp. plain ASCII.
func Decode(data []byte) (*CGGTTS, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotTextEncoded
	}
	return DecodeString(string(data))
}

// DecodeFile decodes the CGGTTS file at path. Gzip compressed files are
// decompressed on the fly.
func DecodeFile(path string) (*CGGTTS, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz := archiver.NewGz()
		var buf bytes.Buffer
		if err := gz.Decompress(r, &buf); err != nil {
			return nil, fmt.Errorf("cggtts: decompress %s: %v", path, err)
		}
		return Decode(buf.Bytes())
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

package cggtts

import (
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/de-bkg/gocggtts/pkg/gnss"
	"github.com/stretchr/testify/assert"
)

func TestDecodeFile_singleFrequency(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeFile("testdata/GZSY8259.568")
	assert.NoError(err)
	assert.NotNil(doc)

	assert.Equal(Version2E, doc.Version, "version")
	assert.Equal(time.Date(2014, 2, 20, 0, 0, 0, 0, time.UTC), doc.ReleaseDate, "release date")
	assert.Equal("SY82", doc.Station, "station")
	assert.Equal("GORGYTIMING", doc.Receiver, "receiver")
	assert.Equal(12, doc.NumChannels, "number of channels")
	assert.Empty(doc.IMS, "ims")
	assert.Equal(CustomReferenceTime("REF(SY82)"), doc.ReferenceTime, "reference time")
	assert.Equal("ITRF", doc.ReferenceFrame, "reference frame")
	assert.InDelta(4314143.824, doc.APCCoordinates.X, 1e-6, "x coordinate")
	assert.InDelta(452633.241, doc.APCCoordinates.Y, 1e-6, "y coordinate")
	assert.InDelta(4660711.385, doc.APCCoordinates.Z, 1e-6, "z coordinate")
	assert.Empty(doc.Comments, "comments")
	assert.Empty(doc.Delay.CalID, "cal id")

	total, ok := doc.Delay.TotalDelay(gnss.CodeC1)
	assert.True(ok, "C1 delay present")
	assert.InDelta(32.9, total, 1e-9, "C1 total delay")

	assert.Len(doc.Tracks, 4, "number of tracks")
	first := doc.Tracks[0]
	assert.Equal("G99", first.SV, "first track sv")
	assert.Equal(ClassSingleChannel, first.Class, "first track class")
	assert.Nil(first.Iono, "first track iono")
}

func TestDecodeFile_dualFrequency(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeFile("testdata/EZUG0060.600")
	assert.NoError(err)
	assert.NotNil(doc)

	assert.Equal(time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC), doc.ReleaseDate, "release date")
	assert.Equal("UGR", doc.Station, "station")
	assert.Equal("PolaRx5TR", doc.Receiver, "receiver")
	assert.Equal(80, doc.NumChannels, "number of channels")
	assert.Equal(UTCk("UGR"), doc.ReferenceTime, "reference time")
	assert.NotEmpty(doc.Comments, "comments")
	assert.InDelta(157.0, doc.Delay.CabDelay, 1e-9, "cable delay")
	assert.InDelta(5.0, doc.Delay.RefDelay, 1e-9, "reference delay")
	assert.Equal("1015-2021/02", doc.Delay.CalID, "cal id")

	// Only the first carrier of the dual-carrier INT DLY line is recorded.
	total, ok := doc.Delay.TotalDelay(gnss.CodeE1)
	assert.True(ok, "E1 delay present")
	assert.InDelta(157.0+5.0+32.9, total, 1e-9, "E1 total delay")
	_, ok = doc.Delay.TotalDelay(gnss.CodeE5)
	assert.False(ok, "E5 delay absent")

	assert.Len(doc.Tracks, 4, "number of tracks")
	for _, trk := range doc.Tracks {
		assert.NotNil(trk.Iono, "iono terms present in 24 field tracks")
		assert.NotNil(trk.FR, "fr")
		assert.NotNil(trk.HC, "hc")
	}
	assert.Equal(gnss.SysGLO, doc.Tracks[0].System(), "first track system")
}

func TestDecodeFile_raw(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeFile("testdata/CTTS_GAL_30s_E1")
	assert.NoError(err)
	assert.NotNil(doc)

	assert.Equal(VersionRaw, doc.Version, "version")
	assert.True(doc.ReleaseDate.IsZero(), "release date absent")
	assert.Equal("UGR", doc.Station, "station")
	assert.Empty(doc.Receiver, "receiver absent")
	assert.Equal(0, doc.NumChannels, "number of channels")
	assert.InDelta(5077155.53, doc.APCCoordinates.X, 1e-6, "x coordinate")
	assert.InDelta(-321597.67, doc.APCCoordinates.Y, 1e-6, "y coordinate")
	assert.InDelta(3835335.89, doc.APCCoordinates.Z, 1e-6, "z coordinate")
	assert.NotEmpty(doc.Comments, "comments")
	assert.InDelta(157.0, doc.Delay.CabDelay, 1e-9, "cable delay")
	assert.InDelta(5.0, doc.Delay.RefDelay, 1e-9, "reference delay")

	assert.Len(doc.Tracks, 3, "number of tracks")
	for _, trk := range doc.Tracks {
		assert.Equal(CommonViewClass(0), trk.Class, "class absent")
		assert.Equal(time.Duration(0), trk.Duration, "duration absent")
		assert.Nil(trk.FR, "fr absent")
		assert.Nil(trk.HC, "hc absent")
		if assert.NotNil(trk.Iono, "iono") {
			assert.NotNil(trk.Iono.MSIO, "msio")
			assert.Nil(trk.Iono.SMSI, "smsi absent")
			assert.Nil(trk.Iono.ISG, "isg absent")
		}
	}
}

func TestDecodeFile_gzip(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeFile("testdata/GZSY8259.568.cggtts.gz")
	assert.NoError(err)
	assert.NotNil(doc)
	assert.Equal("SY82", doc.Station, "station")
	assert.Len(doc.Tracks, 4, "number of tracks")
}

func TestDecodeString_emptyTrackSection(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeString("CGGTTS     GENERIC DATA FORMAT VERSION = 2E\nCKSUM = 00\n")
	assert.NoError(err)
	assert.NotNil(doc)

	assert.Equal(Version2E, doc.Version, "version")
	assert.Equal(defaultStation, doc.Station, "default station")
	assert.Equal(Coordinates{}, doc.APCCoordinates, "default coordinates")
	assert.Equal(UTC(), doc.ReferenceTime, "default reference time")
	assert.Empty(doc.Tracks, "no tracks")
}

func TestDecodeString_unsupportedVersion(t *testing.T) {
	assert := assert.New(t)

	doc, err := DecodeString("CGGTTS     GENERIC DATA FORMAT VERSION = 3X\nLAB = SY82\nCKSUM = 00\n")
	assert.Nil(doc)
	assert.ErrorIs(err, ErrUnsupportedVersion)

	doc, err = DecodeString("this is no CGGTTS file\n")
	assert.Nil(doc)
	assert.ErrorIs(err, ErrUnsupportedVersion)
}

func TestDecodeString_malformedRevDate(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeString("CGGTTS     GENERIC DATA FORMAT VERSION = 2E\nREV DATE = 2014/02/20\nCKSUM = 00\n")
	assert.Nil(doc)
	assert.ErrorIs(err, ErrMalformedHeaderField)
}

func TestDecodeString_malformedCoordinate(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeString("CGGTTS     GENERIC DATA FORMAT VERSION = 2E\n" +
		"X = +4314143.824\nY = bad value\nCKSUM = 00\n")
	assert.NoError(err)
	assert.InDelta(4314143.824, doc.APCCoordinates.X, 1e-6, "x coordinate")
	assert.Equal(0.0, doc.APCCoordinates.Y, "malformed y keeps the prior value")
}

func TestDecodeString_invalidRecordLength(t *testing.T) {
	assert := assert.New(t)
	doc, err := DecodeString("CGGTTS     GENERIC DATA FORMAT VERSION = 2E\nCKSUM = 00\n\nlabels\nunits\n" +
		"G99 99 59568 001000 0780\n")
	assert.Nil(doc)
	assert.ErrorIs(err, ErrInvalidRecordLength)
}

func TestDecodeString_idempotent(t *testing.T) {
	assert := assert.New(t)
	data, err := os.ReadFile("testdata/EZUG0060.600")
	assert.NoError(err)

	doc1, err := DecodeString(string(data))
	assert.NoError(err)
	doc2, err := DecodeString(string(data))
	assert.NoError(err)
	assert.Equal(doc1, doc2, "decoding is deterministic")
}

func TestDecode_notTextEncoded(t *testing.T) {
	assert := assert.New(t)
	doc, err := Decode([]byte{0xff, 0xfe, 0x00, 0x43})
	assert.Nil(doc)
	assert.ErrorIs(err, ErrNotTextEncoded)
}

func TestNewDecoder(t *testing.T) {
	assert := assert.New(t)
	r, err := os.Open("testdata/EZUG0060.600")
	assert.NoError(err)
	defer r.Close()

	dec, err := NewDecoder(r)
	assert.NoError(err)
	assert.NotNil(dec)
	assert.Equal("UGR", dec.Header.Station, "station")

	numTracks := 0
	for dec.NextTrack() {
		numTracks++
		trk := dec.Track()
		assert.NotEmpty(trk.SV, "sv")
		assert.False(trk.Epoch.IsZero(), "epoch")
	}
	assert.NoError(dec.Err())
	assert.Equal(4, numTracks, "number of tracks")
}

// Loop over the tracks of a CGGTTS input stream.
func ExampleDecoder() {
	r, err := os.Open("testdata/GZSY8259.568")
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	dec, err := NewDecoder(r)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(dec.Header.Station)

	for dec.NextTrack() {
		trk := dec.Track()
		fmt.Printf("%s %s\n", trk.SV, trk.Epoch.Format("2006-01-02 15:04:05"))
	}
	if err := dec.Err(); err != nil {
		log.Fatal(err)
	}
	// Output:
	// SY82
	// G99 2021-12-20 00:10:00
	// G99 2021-12-20 00:14:00
	// G99 2021-12-20 23:22:00
	// G99 2021-12-20 23:46:00
}

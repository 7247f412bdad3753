package playercheck

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pixelData builds a minimal pixel buffer whose first pixel color-codes id
// the way the test assets do.
func pixelData(id int) []byte {
	r := uint32(id >> 8 & 0xf)
	g := uint32(id >> 4 & 0xf)
	b := uint32(id & 0xf)
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, r<<20|g<<12|b<<4)
	return data
}

// videoFrame returns a frame whose pixel-coded identity matches ts.
func videoFrame(ts float64) *Frame {
	id := int(math.Round(ts * SourceFPS))
	return NewFrame(pixelData(id), ts, ExpectWidth, ExpectHeight, ExpectWidth*4, 1, nil)
}

func TestFrameIDDecode(t *testing.T) {
	for _, id := range []int{0, 1, 0x123, 0xabc, 0xfff} {
		assert.Equal(t, id, frameID(pixelData(id)), "id %#x", id)
	}
}

func TestCheckFrameExact(t *testing.T) {
	f := videoFrame(15.0)
	require.NoError(t, CheckFrame(f, 15.0, 0))
}

func TestTimestampToleranceBoundary(t *testing.T) {
	// One source frame period away is acceptable; anything strictly
	// beyond is not. Audio flag isolates the timestamp check.
	period := 1.0 / SourceFPS

	f := NewFrame(nil, period, 0, 0, 0, -1, nil)
	assert.NoError(t, CheckFrame(f, 0, FlagAudio))

	f = NewFrame(nil, period+1e-9, 0, 0, 0, -1, nil)
	err := CheckFrame(f, 0, FlagAudio)
	require.Error(t, err)

	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.False(t, cerr.ByColor)
	assert.InDelta(t, period, cerr.Diff, 1e-6)
}

func TestColorToleranceBoundary(t *testing.T) {
	// Frame id 1 estimates playback time 1/25 for a request at 0: exactly
	// the tolerance. Frame id 2 is one period past it.
	f := NewFrame(pixelData(1), 1.0/SourceFPS, ExpectWidth, ExpectHeight, ExpectWidth*4, 1, nil)
	assert.NoError(t, CheckFrame(f, 0, 0))

	f = NewFrame(pixelData(2), 1.0/SourceFPS, ExpectWidth, ExpectHeight, ExpectWidth*4, 1, nil)
	err := CheckFrame(f, 0, 0)
	require.Error(t, err)

	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, cerr.ByColor)
	assert.Equal(t, 2, cerr.FrameID)
}

func TestClampToTrimDuration(t *testing.T) {
	// With trimming enabled, a request past the trim point verifies
	// against the trim point, not the request.
	f := videoFrame(TestTrimDuration)
	require.NoError(t, CheckFrame(f, 999999.0, FlagTrimDuration))

	// A frame actually answering t=999999 must be rejected.
	f = videoFrame(999999.0 / 1000) // any timestamp far from the trim point
	require.Error(t, CheckFrame(f, 999999.0, FlagTrimDuration))
}

func TestSkipOffset(t *testing.T) {
	// With skip enabled the frame timestamp is in source media time;
	// subtracting the skip recovers the playback time.
	f := videoFrame(15.0 + TestSkip)
	require.NoError(t, CheckFrame(f, 15.0, FlagSkip))
	require.Error(t, CheckFrame(f, 15.0, 0))
}

func TestAudioSkipsColorCheck(t *testing.T) {
	// An audio frame has no pixel payload; only the timestamp estimate
	// applies.
	f := NewFrame(nil, 15.0, 0, 0, 0, -1, nil)
	require.NoError(t, CheckFrame(f, 15.0, FlagAudio))
}

func TestShortFrameData(t *testing.T) {
	// A video frame without a decodable first pixel is a structural
	// failure, not a panic.
	for _, data := range [][]byte{nil, {}, {1, 2, 3}} {
		f := NewFrame(data, 15.0, ExpectWidth, ExpectHeight, ExpectWidth*4, 1, nil)
		err := CheckFrame(f, 15.0, 0)
		require.Error(t, err, "data length %d", len(data))
		assert.ErrorIs(t, err, ErrBadFrameData)
	}
}

func TestCheckErrorDiagnostics(t *testing.T) {
	f := NewFrame(nil, 100.0, 0, 0, 0, -1, nil)
	err := CheckFrame(f, 15.0, FlagAudio|FlagTrimDuration)
	require.Error(t, err)

	var cerr *CheckError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 15.0, cerr.Requested)
	assert.Equal(t, 15.0, cerr.Clipped)
	assert.Equal(t, TestTrimDuration, cerr.TrimDur)
	assert.Contains(t, cerr.Error(), "trim_duration")
}

func TestFlagsString(t *testing.T) {
	assert.Equal(t, "video", Flags(0).String())
	assert.Equal(t, "video-skip", FlagSkip.String())
	assert.Equal(t, "audio-skip-trimdur", (FlagAudio | FlagSkip | FlagTrimDuration).String())
}

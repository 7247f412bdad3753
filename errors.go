package playercheck

import "errors"

// Structural verification failures. Oracle mismatches carry their own
// diagnostics as *CheckError; these cover the presence/absence and
// metadata checks around them.
var (
	// ErrNoFrame indicates the subject returned no frame where one was
	// required.
	ErrNoFrame = errors.New("playercheck: expected a frame, got none")

	// ErrUnexpectedFrame indicates the subject returned a frame where the
	// contract requires none.
	ErrUnexpectedFrame = errors.New("playercheck: got a frame where none was expected")

	// ErrBadDimensions indicates reported media dimensions do not match
	// the test asset.
	ErrBadDimensions = errors.New("playercheck: unexpected media dimensions")

	// ErrBadFrameData indicates a video frame carries too little pixel
	// data to decode its identity.
	ErrBadFrameData = errors.New("playercheck: frame data too short to decode an id")
)

package playercheck

// Action is one atomic test operation performed against a subject.
// ActionNone (0) is reserved: it terminates a combination and doubles as
// the empty-slot value inside the packed encoding.
type Action uint8

const (
	ActionNone Action = iota
	ActionPrefetch
	ActionFetchInfo
	ActionStart
	ActionMiddle
	ActionEnd

	// actionCount includes the terminator. It is also the number of
	// positions scanned by the combination odometer.
	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:      "none",
	ActionPrefetch:  "prefetch",
	ActionFetchInfo: "fetchinfo",
	ActionStart:     "start",
	ActionMiddle:    "middle",
	ActionEnd:       "end",
}

// String returns the short handler name used in combination descriptions.
func (a Action) String() string {
	if a >= actionCount {
		return "invalid"
	}
	return actionNames[a]
}

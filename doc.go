// Package playercheck validates stateful media-decoding subjects by
// driving them through every duplicate-free ordering of a small set of
// atomic actions and verifying returned frames against analytically
// predictable timestamps and pixel-coded frame identities.
//
// The core pieces are the packed combination encoding (Comb), its
// canonical-order generator (Comb.Next), the verification oracle
// (CheckFrame) and the scenario runner (Runner) that sweeps a Subject
// implementation through all of it. Subject implementations live in the
// simplayer (synthetic, in-memory) and sxplayer (native library via
// purego) subpackages.
package playercheck

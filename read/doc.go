// Package read drives search and insert from a left-to-right stream of
// atoms, producing a single root token covering the stream.
//
// The stream is segmented into maximal alternating runs of unknown and
// known atoms (unknown atoms are interned as they are first seen). Each
// run becomes one block token: unknown runs are interned directly,
// known runs flow through the insert engine so the largest existing
// structure is reused. Block tokens are then folded into a band chain;
// every fold composes the accumulated root with the next band and, when
// the band's own decomposition overlaps a token that already covers the
// root plus the band's head, the complement decomposition is recorded
// as an alternative on the new root. Overlap links are retained as
// telemetry only.
//
// Text input is NFC-normalized before segmentation so visually
// identical sequences intern to identical atoms.
package read

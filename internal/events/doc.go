// Package events decodes the JSON-lines build event stream that cargo writes
// to stdout when invoked with --message-format=json.
//
// Each line is one record tagged by its "reason" field. Records are decoded
// lazily, one at a time, so arbitrarily long builds never hold more than one
// line in memory. Lines that are not JSON are surfaced as *TextLine and
// counted; records with an unknown reason or missing required fields become
// *Unknown. Neither aborts decoding.
package events

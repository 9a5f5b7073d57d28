// Package safe reads typed values out of BSON documents, iterates result
// cursors and parses object identifiers without ever letting a malformed or
// unexpectedly shaped document, a failing cursor or a bad identifier escape
// as a panic.
//
// Field accessors return the stored value when the field is present with the
// requested type. Otherwise they log a single diagnostic, using the logger
// found in the context, and return a sentinel (an empty string, -1, false or
// an empty document/array). Callers are expected to check sentinels and
// boolean results rather than recover from these calls.
package safe

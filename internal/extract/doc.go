// Package extract splits the composite error field of an audit row into
// individual raw error messages.
//
// The audit runner joins every message reported for a page with the literal
// delimiter " | ". Extraction reverses that join: pieces are trimmed and empty
// pieces are dropped. A missing, blank or NaN-like cell is simply a row with
// no errors and is never reported as a failure.
package extract

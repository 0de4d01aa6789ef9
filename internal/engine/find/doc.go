// Package find implements search and replace over a document.
//
// A Finder flattens the document into one string joined by line feeds,
// searches it literally or with a regular expression and maps every match
// back to coordinates. Results are cached together with per-line highlight
// segments and recomputed whenever the document generation changes or the
// pattern or options change. Refreshes caused by typing can be deferred so
// a burst of edits triggers one search.
package find

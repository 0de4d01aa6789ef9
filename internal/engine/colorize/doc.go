// Package colorize assigns style classes to the glyphs of a document.
//
// Coloring runs in two phases. The comment scan walks the whole document
// and tags every glyph with its string, comment and preprocessor state; it
// has to be global because a block comment opened on one line affects every
// line after it. Token classification is local to a line and runs
// incrementally over a dirty line range, a bounded number of lines per
// Step, so a host can spread the work over several frames.
package colorize

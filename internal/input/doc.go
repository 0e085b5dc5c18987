// Package input builds validated initial states from files.
//
// Two formats are accepted. The text format carries five header lines
//
//	#HDR N     3
//	#HDR G     1
//	#HDR dt    0.001
//	#HDR tdump 10
//	#HDR T     10000
//
// followed by one line per body: index (1-based), mass, position and
// velocity. Other lines starting with '#' are comments. The YAML format
// (.yaml or .yml) holds the same fields as a document, see [Document].
package input

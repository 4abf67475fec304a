// Package playlist renders channel selections into an M3U document and reads
// documents back.
//
// A document is an ordered list of lines: the #EXTM3U header followed by an
// #EXTINF info line and a URL line per channel. Rendering is a pure function
// of its input, which is what lets the guardian compare documents line by line
// to decide whether anything changed.
package playlist

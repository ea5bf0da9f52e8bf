// Package pls reads and writes playlists in the PLS format.
//
// A PLS playlist is an INI document with a single [playlist] section:
//
//	[playlist]
//	File1=Track 1.mp3
//	Title1=Unknown Artist - Track 1
//
//	File2=Track 2.mp3
//	Length2=420
//
//	NumberOfEntries=2
//	Version=2
//
// [Parse] is lenient: only the [playlist] section, the entry count and one
// File# key per entry are required. The misspelled count keys
// "numberofentries" and "NumberOfEvents" produced by some radio stations are
// accepted. [Write] always produces the canonical form shown above.
package pls

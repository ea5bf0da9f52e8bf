// Package watch re-parses a playlist file whenever it changes on disk.
//
// A [Watcher] observes the directory containing the playlist with fsnotify
// and broadcasts an [EventStart] followed by an [EventEnd] to every
// subscriber each time the file is written, created or renamed.
package watch

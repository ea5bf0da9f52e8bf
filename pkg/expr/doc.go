// Package expr provides CEL (Common Expression Language) filters for
// selecting playlist elements.
//
// It creates CEL environments with custom functions for:
//   - File path operations (pathBase, pathDir, pathExt)
//   - URL inspection (isURL, urlHost, urlScheme)
//
// CEL expressions have access to variables:
//   - `index` (int): 1-based position of the element in the playlist
//   - `path` (string): The File# value
//   - `title` (string): The Title# value, empty when absent
//   - `hasTitle` (bool): Whether a Title# key is present
//   - `length` (int): Length in seconds, -1 when unknown
package expr

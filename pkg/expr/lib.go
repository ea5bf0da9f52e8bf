package expr

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Math(),
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(path) == "track01.mp3".
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathBase", func(s string) ref.Val {
					return types.String(pathFunc(s, path.Base, filepath.Base))
				})),
			),
		),

		// `pathDir` returns all but the last element of the path.
		// Example: pathDir(path).startsWith("/music").
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathDir", func(s string) ref.Val {
					return types.String(pathFunc(s, path.Dir, filepath.Dir))
				})),
			),
		),

		// `pathExt` returns the file extension of the path.
		// Example: pathExt(path) in [".mp3", ".ogg"].
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("pathExt", func(s string) ref.Val {
					return types.String(pathFunc(s, path.Ext, filepath.Ext))
				})),
			),
		),

		// `isURL` reports whether the value is an absolute URL with a host.
		// Example: !isURL(path).
		cel.Function("isURL",
			cel.Overload("is_url", []*cel.Type{cel.StringType}, cel.BoolType,
				cel.UnaryBinding(stringFunc("isURL", func(s string) ref.Val {
					_, ok := parseURL(s)
					return types.Bool(ok)
				})),
			),
		),

		// `urlHost` returns the host of a URL, or an empty string.
		// Example: urlHost(path) == "radio.example.com".
		cel.Function("urlHost",
			cel.Overload("url_host", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("urlHost", func(s string) ref.Val {
					u, ok := parseURL(s)
					if !ok {
						return types.String("")
					}

					return types.String(u.Hostname())
				})),
			),
		),

		// `urlScheme` returns the lowercased scheme of a URL, or an empty string.
		// Example: urlScheme(path) in ["http", "https"].
		cel.Function("urlScheme",
			cel.Overload("url_scheme", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc("urlScheme", func(s string) ref.Val {
					u, ok := parseURL(s)
					if !ok {
						return types.String("")
					}

					return types.String(strings.ToLower(u.Scheme))
				})),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

func stringFunc(name string, fn func(string) ref.Val) func(ref.Val) ref.Val {
	return func(v ref.Val) ref.Val {
		s, ok := v.(types.String)
		if !ok {
			return types.NewErr("%s: invalid string value", name)
		}

		return fn(string(s))
	}
}

// pathFunc applies the URL-style function to URLs and the OS-specific one to
// everything else.
func pathFunc(s string, urlFn, fileFn func(string) string) string {
	if u, ok := parseURL(s); ok {
		return urlFn(u.Path)
	}

	return fileFn(s)
}

func parseURL(s string) (*url.URL, bool) {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}

	return u, true
}

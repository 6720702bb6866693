package runtime

import (
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// BaseEnv lists the variables every command inherits, whatever the plan says.
var BaseEnv = []string{
	"PATH",
	"HOME",
	"USER",
	"LANG",
	"LANGUAGE",
	"LC_ALL",
	"LC_CTYPE",
	"TERM",
	"TMPDIR",
	"TEMP",
	"TMP",
	"SHELL",
	"PIP_INDEX_URL",
	"PIP_EXTRA_INDEX_URL",
	"http_proxy",
	"https_proxy",
	"no_proxy",
	"SYSTEMROOT",
	"COMSPEC",
	"PATHEXT",
}

var osEnviron = os.Environ

// BuildEnv restricts environ to BaseEnv plus the passenv patterns, then
// applies set on top. Patterns are globs such as "TRAVIS_*". The result is
// sorted by key.
func BuildEnv(environ []string, passenv []string, set map[string]string) []string {
	vars := make(map[string]string, len(set)+len(BaseEnv))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		if passes(key, passenv) {
			vars[key] = value
		}
	}
	for k, v := range set {
		vars[k] = v
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k + "=" + vars[k]
	}
	return out
}

func passes(key string, passenv []string) bool {
	for _, name := range BaseEnv {
		if key == name {
			return true
		}
	}
	for _, pattern := range passenv {
		if pattern == key {
			return true
		}
		if ok, _ := doublestar.Match(pattern, key); ok {
			return true
		}
	}
	return false
}

package heuristic

import (
	"sort"
	"strings"

	"go-dealer-jobwatch/internal/scraper"
)

var titleKeyHints = []string{"title", "job", "position", "role", "name", "heading"}

func titleLikeKey(key string) bool {
	k := strings.ToLower(key)
	for _, h := range titleKeyHints {
		if strings.Contains(k, h) {
			return true
		}
	}
	return false
}

// MineJSON walks a decoded JSON value and returns string fields under
// title-like keys that pass the shape test. Array elements inherit the key of
// the array. Object keys are visited in sorted order so results are stable.
func MineJSON(v any) []string {
	var out []string
	walkJSON(v, "", &out)
	return out
}

func walkJSON(v any, key string, out *[]string) {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkJSON(t[k], k, out)
		}
	case []any:
		for _, item := range t {
			walkJSON(item, key, out)
		}
	case string:
		if !titleLikeKey(key) {
			return
		}
		line := scraper.CleanText(t)
		if LooksLikeTitle(line) {
			*out = append(*out, line)
		}
	}
}

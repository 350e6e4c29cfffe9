package descriptor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// parseTOML decodes a TOML document. Table keys are ordered by their first
// appearance in the document as reported by the decoder metadata.
func parseTOML(data []byte) (*Node, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	order := make(map[string]int)
	for i, k := range md.Keys() {
		path := strings.Join(k, "\x00")
		if _, seen := order[path]; !seen {
			order[path] = i
		}
	}
	return fromTOML(raw, nil, order)
}

func fromTOML(v any, path []string, order map[string]int) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(x), nil
	case int64:
		return Int(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case map[string]any:
		return tomlTable(x, path, order)
	case []map[string]any:
		l := List()
		for _, t := range x {
			n, err := tomlTable(t, path, order)
			if err != nil {
				return nil, err
			}
			l.List = append(l.List, n)
		}
		return l, nil
	case []any:
		l := List()
		for _, item := range x {
			n, err := fromTOML(item, path, order)
			if err != nil {
				return nil, err
			}
			l.List = append(l.List, n)
		}
		return l, nil
	}
	return nil, fmt.Errorf("%s: unsupported toml value %T", strings.Join(path, "."), v)
}

func tomlTable(t map[string]any, path []string, order map[string]int) (*Node, error) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	rank := func(k string) int {
		p := strings.Join(append(append([]string(nil), path...), k), "\x00")
		if r, ok := order[p]; ok {
			return r
		}
		return len(order)
	}
	sort.SliceStable(keys, func(i, j int) bool {
		ri, rj := rank(keys[i]), rank(keys[j])
		if ri != rj {
			return ri < rj
		}
		return keys[i] < keys[j]
	})

	m := Map()
	for _, k := range keys {
		n, err := fromTOML(t[k], append(append([]string(nil), path...), k), order)
		if err != nil {
			return nil, err
		}
		m.Put(k, n)
	}
	return m, nil
}

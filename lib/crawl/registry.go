package crawl

import (
	"fmt"
	"sort"

	"check24-backend/lib/sources"
	"check24-backend/lib/sources/asaka"
	"check24-backend/lib/sources/asiaalliance"
)

type Constructor func(opts sources.Options) sources.Source

var registry = map[string]Constructor{
	asaka.Name: func(opts sources.Options) sources.Source {
		return asaka.New(opts)
	},
	asiaalliance.Name: func(opts sources.Options) sources.Source {
		return asiaalliance.New(opts)
	},
}

// Names lists every known source id in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the named sources with their options, a source without
// an entry in opts gets the defaults. No names means every known source.
func Build(opts map[string]sources.Options, names ...string) ([]sources.Source, error) {
	if len(names) == 0 {
		names = Names()
	}

	out := make([]sources.Source, 0, len(names))
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		constructor, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown source %q, known sources: %v", name, Names())
		}
		out = append(out, constructor(opts[name]))
	}
	return out, nil
}

package parallel

import "github.com/FocuswithJustin/JuniperParallel/core/catalog"

// ResolveNames maps each identifier to its catalog display name, keeping the
// identifier itself when the catalog has no entry for it.
func ResolveNames(ids []string, cat catalog.Catalog) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		if t, ok := cat[id]; ok {
			names[i] = t.DisplayName()
		} else {
			names[i] = id
		}
	}
	return names
}

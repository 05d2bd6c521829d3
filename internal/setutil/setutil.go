// Package setutil provides helpers for comparing column name sets.
// Ordering is irrelevant for set comparisons; duplicates collapse.
package setutil

// Equal reports whether a and b contain exactly the same names.
func Equal(a, b []string) bool {
	as := toSet(a)
	bs := toSet(b)
	if len(as) != len(bs) {
		return false
	}
	for name := range as {
		if _, ok := bs[name]; !ok {
			return false
		}
	}
	return true
}

// Covers reports whether covering contains every name in required.
func Covers(covering, required []string) bool {
	cs := toSet(covering)
	for _, name := range required {
		if _, ok := cs[name]; !ok {
			return false
		}
	}
	return true
}

// Contains reports whether set contains name.
func Contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

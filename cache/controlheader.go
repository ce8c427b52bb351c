package cache

import "strings"

// controlDirectives is the parsed form of a Cache-Control response header.
type controlDirectives struct {
	public bool
	maxAge int // seconds; -1 if absent
}

func parseCacheControl(raw string) controlDirectives {
	cd := controlDirectives{maxAge: -1}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.EqualFold(part, "public") {
			cd.public = true
			continue
		}
		if name, val, ok := strings.Cut(part, "="); ok && strings.EqualFold(strings.TrimSpace(name), "max-age") {
			val = strings.TrimSpace(val)
			n := 0
			valid := len(val) > 0
			for _, r := range val {
				if r < '0' || r > '9' {
					valid = false
					break
				}
				n = n*10 + int(r-'0')
			}
			if valid {
				cd.maxAge = n
			}
		}
	}
	return cd
}

// cacheable reports whether a response with these directives may be cached
// at all (spec.md §4.5 "Write path"): a missing or zero max-age, or a
// directive that isn't public, means no cache write.
func (cd controlDirectives) cacheable() bool {
	return cd.public && cd.maxAge > 0
}

// parseVary splits a Vary header value into lower-cased header names
// (spec.md §9 Open Question resolution: normalize both sides to lowercase).
func parseVary(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

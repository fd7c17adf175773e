package event

import "strings"

// Find returns the first event named name.
func Find[E Event](events []E, name string) (E, bool) {
	for _, e := range events {
		if e.Name() == name {
			return e, true
		}
	}
	var zero E
	return zero, false
}

// Contains reports whether any event is named name.
func Contains[E Event](events []E, name string) bool {
	_, ok := Find(events, name)
	return ok
}

// Search returns the events whose name contains query, ignoring case.
func Search[E Event](events []E, query string) []E {
	q := strings.ToLower(query)
	out := make([]E, 0)
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.Name()), q) {
			out = append(out, e)
		}
	}
	return out
}

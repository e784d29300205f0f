package event

import "strings"

// Handler processes a fired event. The args are whatever the firing site
// passed to Fire. A nil return is ignored; any other return is collected
// into the Results seen by the firing site, and an explicit false return
// marks the pending default action as cancelled.
type Handler func(args ...any) any

// Spec is one parsed subscription key: an event name plus an optional
// namespace. A Spec with an empty Name matches every event carrying the
// namespace (used for bulk removal).
type Spec struct {
	Name      string
	Namespace string
}

// ParseSpec splits a space-separated event specification into Specs.
// Each token is "name", "name.namespace", or ".namespace".
func ParseSpec(spec string) ([]Spec, error) {
	var specs []Spec
	for _, token := range strings.Fields(spec) {
		name, ns, _ := strings.Cut(token, ".")
		if name == "" && ns == "" {
			return nil, ErrEmptySpec
		}
		specs = append(specs, Spec{Name: name, Namespace: ns})
	}
	if len(specs) == 0 {
		return nil, ErrEmptySpec
	}
	return specs, nil
}

// subscription binds one handler to one (name, namespace) pair.
type subscription struct {
	id        string
	name      string
	namespace string
	handler   Handler
}

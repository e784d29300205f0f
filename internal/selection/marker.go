package selection

import (
	"regexp"

	"github.com/google/uuid"
	"github.com/tbraden/inkstone/internal/dom"
)

// markerAttr tags the inert nodes used to make a selection re-locatable
// across tree mutation. Plain range offsets are invalidated by any
// mutation; markers survive serialization round-trips.
const markerAttr = "data-ink-selection-marker"

// markerPattern matches any marker node in serialized markup.
var markerPattern = regexp.MustCompile(`<span[^>]*` + markerAttr + `[^>]*>[^<]*</span>`)

// markerMarkup builds the markup for one marker node. The invisible
// space keeps some platforms from collapsing the empty span.
func markerMarkup(kind, id string) string {
	return `<span ` + markerAttr + `="` + kind + `" id="` + id + `">` + dom.InvisibleSpace + `</span>`
}

func newMarkerID() string {
	return "ink_marker_" + uuid.NewString()
}

// StripMarkers removes every marker node from serialized markup. The
// sync engine applies it to any value it exposes externally, so markers
// never leak into the source element.
func StripMarkers(markup string) string {
	return markerPattern.ReplaceAllString(markup, "")
}

// HasMarkers reports whether serialized markup contains marker nodes.
func HasMarkers(markup string) bool {
	return markerPattern.MatchString(markup)
}

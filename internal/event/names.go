package event

// Canonical event names produced and consumed by the engine.
const (
	// Lifecycle events.
	BeforeInit       = "beforeInit"
	AfterInit        = "afterInit"
	AfterConstructor = "afterConstructor"
	BeforeDestruct   = "beforeDestruct"
	CreateEditor     = "createEditor"

	// Value synchronization events.
	BeforeGetValueFromEditor = "beforeGetValueFromEditor"
	AfterGetValueFromEditor  = "afterGetValueFromEditor"
	BeforeSetValueToEditor   = "beforeSetValueToEditor"
	Change                   = "change"

	// Command dispatch events.
	BeforeCommand = "beforeCommand"
	AfterCommand  = "afterCommand"

	// Mode events.
	BeforeSetMode = "beforeSetMode"
	AfterSetMode  = "afterSetMode"

	// State events.
	Readonly      = "readonly"
	Disabled      = "disabled"
	RemoveMarkers = "removeMarkers"
	Resize        = "resize"
)

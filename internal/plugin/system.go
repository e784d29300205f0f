package plugin

import "github.com/tbraden/inkstone/internal/log"

// System runs a resolved plugin set against one editor instance. The
// lifecycle coordinator drives it: Init during editor initialization,
// Destruct during teardown.
type System struct {
	registry *Registry
	names    []string
	log      *log.Logger

	inited []Named // successfully initialized, in init order
}

// NewSystem creates a system that will run the named plugins from the
// registry. An empty name list means every registered plugin.
func NewSystem(registry *Registry, names []string, logger *log.Logger) *System {
	if logger == nil {
		logger = log.Discard()
	}
	return &System{
		registry: registry,
		names:    names,
		log:      logger.WithComponent("plugin"),
	}
}

// Init resolves the plugin set and initializes each plugin in
// dependency order. A plugin whose Init fails is logged and skipped;
// the rest still run. Resolution failures (unknown names, requirement
// cycles) are configuration errors and are returned.
func (s *System) Init(inst Instance) error {
	resolved, err := s.registry.Resolve(s.names)
	if err != nil {
		return err
	}

	for _, n := range resolved {
		if err := n.Plugin.Init(inst); err != nil {
			s.log.Warn("plugin %q init failed, skipping: %v", n.Name, err)
			continue
		}
		s.log.Debug("plugin %q initialized", n.Name)
		s.inited = append(s.inited, n)
	}
	return nil
}

// Destruct tears down initialized plugins in reverse init order.
// Plugins that never initialized are never destructed. Idempotent.
func (s *System) Destruct(inst Instance) {
	for i := len(s.inited) - 1; i >= 0; i-- {
		n := s.inited[i]
		if d, ok := n.Plugin.(Destructor); ok {
			d.Destruct(inst)
			s.log.Debug("plugin %q destructed", n.Name)
		}
	}
	s.inited = nil
}

// Initialized returns the names of successfully initialized plugins in
// init order.
func (s *System) Initialized() []string {
	names := make([]string, len(s.inited))
	for i, n := range s.inited {
		names[i] = n.Name
	}
	return names
}

// Package components holds what the individual component packages share:
// the sticky-error HTML writer, class joining, and the localized labels.
//
// Each component lives in its own sub-package (table, grid, card, tabs,
// modal, diagram, header). A component is a view model that owns its local
// state, exposes explicit transition methods, and renders itself through
// Component() as a templ.Component. State is never shared between
// instances.
package components

package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayControls OverlayID = "controls"
	OverlayHUD      OverlayID = "hud"
	OverlayTarget   OverlayID = "target"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID       OverlayID // Unique identifier
	Name     string    // Display name
	Key      int32     // Keyboard key to toggle (0 = no key)
	KeyLabel string    // Key label for display
	Enabled  bool      // Initial state
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the default overlays. The
// controls panel is bound to controlsKey.
func NewOverlayRegistry(controlsKey int32, controlsLabel string) *OverlayRegistry {
	r := &OverlayRegistry{enabled: make(map[OverlayID]bool)}
	r.Register(OverlayDescriptor{
		ID:       OverlayControls,
		Name:     "Controls",
		Key:      controlsKey,
		KeyLabel: controlsLabel,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayHUD,
		Name:     "HUD",
		Key:      rl.KeyH,
		KeyLabel: "H",
		Enabled:  true,
	})
	r.Register(OverlayDescriptor{
		ID:       OverlayTarget,
		Name:     "Target Marker",
		Key:      rl.KeyM,
		KeyLabel: "M",
	})
	return r
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.enabled[desc.ID] = desc.Enabled
}

// Toggle switches an overlay on/off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.enabled[id]; !ok {
		return false
	}
	r.enabled[id] = !r.enabled[id]
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if _, ok := r.enabled[id]; ok {
		r.enabled[id] = enabled
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// HandleKeys toggles the first overlay whose key reports pressed.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeys(pressed func(key int32) bool) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && pressed(desc.Key) {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

package billboard

// DropdownItem is one entry of a dropdown widget.
type DropdownItem struct {
	Value uint32
	Label string
}

// Widgets is the immediate-mode GUI the pass draws its options with.
// Each control reports whether the user changed its value this call.
type Widgets interface {
	Dropdown(label string, items []DropdownItem, value *uint32) bool
	Checkbox(label string, value *bool) bool
	IntVar(label string, value *int, minValue, maxValue int) bool
	Tooltip(text string)
}

// FootprintModeItems lists the selectable footprint modes.
var FootprintModeItems = []DropdownItem{
	{Value: uint32(FootprintDisabled), Label: FootprintDisabled.String()},
	{Value: uint32(FootprintRayDiffsAnisotropic), Label: FootprintRayDiffsAnisotropic.String()},
}

// RenderUI draws the pass options and reports whether any changed.
// A change marks the pass dirty and resets frame timing.
func (p *Pass) RenderUI(w Widgets) bool {
	changed := false

	mode := uint32(p.opts.FootprintMode)
	if w.Dropdown("Ray footprint mode", FootprintModeItems, &mode) {
		if m := FootprintMode(mode); m.Valid() {
			p.opts.FootprintMode = m
			changed = true
		}
	}
	w.Tooltip("The ray footprint (texture LOD) mode to use.")

	if w.Checkbox("Reflection correction", &p.opts.ReflectionCorrection) {
		changed = true
	}
	w.Tooltip("Ray origin correction for impostors and particles")
	if w.Checkbox("Refraction correction", &p.opts.RefractionCorrection) {
		changed = true
	}
	w.Tooltip("Ray origin correction for impostors and particles")

	if w.IntVar("Deep shadow samples", &p.opts.DeepShadowSamples, MinDeepShadowSamples, MaxDeepShadowSamples) {
		p.opts.DeepShadowSamples = clampSamples(p.opts.DeepShadowSamples)
		changed = true
	}
	w.Tooltip("Shadow samples will be taken from front- and backface of the billboard")

	if w.Checkbox("Shadows", &p.opts.Shadows) {
		changed = true
	}
	if w.Checkbox("Random Colors", &p.opts.RandomColors) {
		changed = true
	}
	w.Tooltip("Multiplies billboard colors with some random color")

	if changed {
		p.markDirty()
	}
	return changed
}

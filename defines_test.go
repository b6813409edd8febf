package billboard

import "testing"

func TestSynthesizeDefinesOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.RandomColors = true
	opts.DeepShadowSamples = 4

	got := SynthesizeDefines(opts, newFakeScene(3, 5), newRenderData(8, 8, "color"))

	want := []struct{ name, value string }{
		{"is_valid_gOutputColor", "1"},
		{"is_valid_gDebug", "0"},
		{"RAY_FOOTPRINT_MODE", "3"},
		{"RAY_CONE_MODE", "1"},
		{"RAY_FOOTPRINT_USE_MATERIAL_ROUGHNESS", "1"},
		{"USE_REFLECTION_CORRECTION", "true"},
		{"USE_REFRACTION_CORRECTION", "true"},
		{"BILLBOARD_MATERIAL_ID", "2"},
		{"USE_SHADOWS", "true"},
		{"USE_RANDOM_BILLBOARD_COLORS", "true"},
		{"BILLBOARD_SHADOW_SAMPLES", "4"},
	}
	all := got.All()
	if len(all) != len(want) {
		t.Fatalf("got %d defines (%v), want %d", len(all), got, len(want))
	}
	for i, d := range all {
		if d.Name != want[i].name || d.Value != want[i].value {
			t.Errorf("define %d = %s=%s, want %s=%s", i, d.Name, d.Value, want[i].name, want[i].value)
		}
	}
}

func TestSynthesizeDefinesNoScene(t *testing.T) {
	opts := DefaultOptions()
	opts.FootprintMode = FootprintDisabled
	opts.Shadows = false

	got := SynthesizeDefines(opts, nil, newRenderData(8, 8, "color", "debug"))

	if _, ok := got.Get("BILLBOARD_MATERIAL_ID"); ok {
		t.Error("BILLBOARD_MATERIAL_ID without scene")
	}
	checks := map[string]string{
		"is_valid_gOutputColor": "1",
		"is_valid_gDebug":       "1",
		"RAY_FOOTPRINT_MODE":    "0",
		"USE_SHADOWS":           "false",
	}
	for name, want := range checks {
		if v, _ := got.Get(name); v != want {
			t.Errorf("%s = %q, want %q", name, v, want)
		}
	}
}

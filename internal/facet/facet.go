// Package facet defines the fixed category facets and computes live
// per-facet document counts.
package facet

// Definition maps a facet name to its fixed, ordered keyword stems.
// Definitions are static configuration, fixed at startup.
type Definition struct {
	Name     string
	Keywords []string
}

// Definitions lists the configured facets in display order.
var Definitions = []Definition{
	{Name: "Spells", Keywords: []string{"spell", "incantation", "invocation", "conjure"}},
	{Name: "Remedies", Keywords: []string{"remedy", "salve", "ointment", "treatment", "herb"}},
	{Name: "Potions", Keywords: []string{"potion", "elixir", "tincture", "brew"}},
	{Name: "Cures", Keywords: []string{"cure", "healing", "heal", "antidote"}},
	{Name: "Protection", Keywords: []string{"protection", "ward", "shield", "banish", "circle", "sigil"}},
}

// Poems holds the descriptive verse shown with each facet.
var Poems = map[string]string{
	"Spells":     "Whispered threads of ink and air, your words decide which worlds will flare.",
	"Remedies":   "Leaf and root and quiet care, the body learns it isn't bare.",
	"Potions":    "In glass and swirl, a sleeping star, you drink the roads to who you are.",
	"Cures":      "Soft undoing of the harm, untying knots with patient charm.",
	"Protection": "Circles drawn and sigils bright, your name stays burning in the night.",
}

// Songs holds the chorus line shown with each facet.
var Songs = map[string]string{
	"Spells":     "🎵 'Speak low, speak clear, let the spell draw near.'",
	"Remedies":   "🎵 'Herb by herb, we hum repair, weaving health from open air.'",
	"Potions":    "🎵 'Stir once for truth, twice for sight, three times for dream-lit night.'",
	"Cures":      "🎵 'Let the wound remember less, beat by beat in gentleness.'",
	"Protection": "🎵 'Circle bright, circle strong, keep my story safe and long.'",
}

package trend

// Preset is a named shortcut for a date interval measured back from the
// latest date in the table.
type Preset string

const (
	PresetAll Preset = "all"
	Preset7D  Preset = "7d"
	Preset30D Preset = "30d"
	Preset90D Preset = "90d"
	Preset1Y  Preset = "1y"
	Preset2Y  Preset = "2y"
	Preset3Y  Preset = "3y"
	Preset4Y  Preset = "4y"
	Preset5Y  Preset = "5y"
	Preset10Y Preset = "10y"
)

// presetDays maps each preset to its day-count offset. PresetAll has no
// offset and is handled separately by Resolve.
var presetDays = map[Preset]int{
	Preset7D:  7,
	Preset30D: 30,
	Preset90D: 90,
	Preset1Y:  365,
	Preset2Y:  730,
	Preset3Y:  1095,
	Preset4Y:  1460,
	Preset5Y:  1825,
	Preset10Y: 3650,
}

// presetLabels carries the Korean UI labels from the source dashboard.
var presetLabels = map[Preset]string{
	PresetAll: "전체 기간",
	Preset7D:  "최근 7일",
	Preset30D: "최근 30일",
	Preset90D: "최근 90일",
	Preset1Y:  "최근 1년",
	Preset2Y:  "최근 2년",
	Preset3Y:  "최근 3년",
	Preset4Y:  "최근 4년",
	Preset5Y:  "최근 5년",
	Preset10Y: "최근 10년",
}

// presetOrder is the display order for the preset dropdown.
var presetOrder = []Preset{
	PresetAll, Preset7D, Preset30D, Preset90D,
	Preset1Y, Preset2Y, Preset3Y, Preset4Y, Preset5Y, Preset10Y,
}

// Valid reports whether p is a known preset.
func (p Preset) Valid() bool {
	if p == PresetAll {
		return true
	}
	_, ok := presetDays[p]
	return ok
}

// Days returns the day-count offset for p. The second result is false
// for PresetAll and unknown presets.
func (p Preset) Days() (int, bool) {
	d, ok := presetDays[p]
	return d, ok
}

// Label returns the UI label for p, or the preset id itself if unknown.
func (p Preset) Label() string {
	if l, ok := presetLabels[p]; ok {
		return l
	}
	return string(p)
}

// PresetInfo describes one preset for the UI dropdown. Days is zero for
// the all-time preset.
type PresetInfo struct {
	ID    Preset `json:"id"`
	Label string `json:"label"`
	Days  int    `json:"days,omitempty"`
}

// Presets returns all presets in display order.
func Presets() []PresetInfo {
	infos := make([]PresetInfo, 0, len(presetOrder))
	for _, p := range presetOrder {
		days, _ := p.Days()
		infos = append(infos, PresetInfo{ID: p, Label: p.Label(), Days: days})
	}
	return infos
}

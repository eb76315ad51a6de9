package arbiter

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wire mirrors the JSON shape the oracle is instructed to emit. Every field
// is optional; flexInt tolerates numbers the model quotes as strings.
type wire struct {
	MainResponse string    `json:"main_response"`
	ActionType   string    `json:"action_type"`
	DiceRequired *wireDice `json:"dice_required"`
	Hint         string    `json:"hint"`
	Consequences *struct {
		Success string `json:"success"`
		Failure string `json:"failure"`
	} `json:"consequences"`
	XPReward   flexInt `json:"xp_reward"`
	GoldReward flexInt `json:"gold_reward"`
	Ability    string  `json:"ability"`
}

type wireDice struct {
	Type         string  `json:"type"`
	ModifierStat string  `json:"modifier_stat"`
	Difficulty   flexInt `json:"difficulty"`
	DamageDice   string  `json:"damage_dice"`
}

// flexInt decodes a JSON number, a quoted number, null, or absence to an
// int, truncating fractions and treating anything unusable as zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	var v float64
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(v)
	return nil
}

// knownDice is the set of die types the oracle may demand. Anything else is
// normalized to d20.
var knownDice = map[string]bool{
	"d4": true, "d6": true, "d8": true, "d10": true, "d12": true, "d20": true, "d100": true,
}

// Decode parses raw oracle output into a Decision, tolerating partial
// conformance: JSON is extracted even from fenced or chatty output, unknown
// fields are ignored, and missing fields take documented defaults (no dice
// requirement, zero rewards, empty consequences).
//
// Postcondition: returns an error only when no JSON object with a usable
// main_response can be recovered at all; the caller maps that to the
// fallback decision.
func Decode(raw string) (Decision, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return Decision{}, err
	}

	var w wire
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return Decision{}, fmt.Errorf("arbiter: oracle response is not valid JSON: %w", err)
	}
	if strings.TrimSpace(w.MainResponse) == "" {
		return Decision{}, fmt.Errorf("arbiter: oracle response has no main_response")
	}

	d := Decision{
		Narrative:  strings.TrimSpace(w.MainResponse),
		ActionType: normalizeActionType(w.ActionType),
		Dice:       DiceRequirement{Type: DiceTypeNone},
		Hint:       strings.TrimSpace(w.Hint),
		XPReward:   int(w.XPReward),
		GoldReward: int(w.GoldReward),
		AbilityID:  strings.TrimSpace(w.Ability),
	}
	if w.Consequences != nil {
		d.Consequences = Consequences{
			Success: strings.TrimSpace(w.Consequences.Success),
			Failure: strings.TrimSpace(w.Consequences.Failure),
		}
	}
	if w.DiceRequired != nil {
		d.Dice = normalizeDice(*w.DiceRequired)
	}

	// Rewards are deltas granted by the oracle; never let it take away.
	if d.XPReward < 0 {
		d.XPReward = 0
	}
	if d.GoldReward < 0 {
		d.GoldReward = 0
	}
	return d, nil
}

// normalizeDice bounds a declared dice requirement: the die type must be a
// known die (unknown → d20), the stat must be one of the six attribute
// labels, and a non-positive difficulty means no roll is actually needed.
func normalizeDice(w wireDice) DiceRequirement {
	dieType := strings.ToLower(strings.TrimSpace(w.Type))
	if dieType == "" || dieType == DiceTypeNone {
		return DiceRequirement{Type: DiceTypeNone}
	}
	if !knownDice[dieType] {
		dieType = "d20"
	}

	difficulty := int(w.Difficulty)
	if difficulty <= 0 {
		return DiceRequirement{Type: DiceTypeNone}
	}

	stat := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(w.ModifierStat), "+"))
	switch stat {
	case "str", "dex", "con", "int", "wis", "cha":
	default:
		stat = ""
	}

	return DiceRequirement{
		Type:         dieType,
		ModifierStat: stat,
		Difficulty:   difficulty,
		DamageDice:   strings.TrimSpace(w.DamageDice),
	}
}

// extractJSON recovers the JSON object embedded in raw, stripping markdown
// fences and any prose around the outermost braces.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("arbiter: no JSON object in oracle response")
	}
	return s[start : end+1], nil
}

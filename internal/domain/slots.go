package domain

import "fmt"

// NumSkillSlots is the fixed size of an actor's skill loadout.
const NumSkillSlots = 8

// SkillSlot holds one equipped skill. An empty SkillKey means the slot is free.
type SkillSlot struct {
	SkillKey string `json:"skill_key,omitempty"`
}

// SkillSlots is a fixed-size loadout indexed numerically. Slot assignment is
// always by index; there are no per-slot field names to build dynamically.
type SkillSlots [NumSkillSlots]SkillSlot

// Equip places skillKey into slot idx, replacing whatever was there.
func (s *SkillSlots) Equip(idx int, skillKey string) error {
	if idx < 0 || idx >= NumSkillSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, idx)
	}
	s[idx] = SkillSlot{SkillKey: skillKey}
	return nil
}

// Clear empties slot idx.
func (s *SkillSlots) Clear(idx int) error {
	if idx < 0 || idx >= NumSkillSlots {
		return fmt.Errorf("%w: %d", ErrInvalidSlot, idx)
	}
	s[idx] = SkillSlot{}
	return nil
}

// At returns the slot at idx.
func (s *SkillSlots) At(idx int) (SkillSlot, error) {
	if idx < 0 || idx >= NumSkillSlots {
		return SkillSlot{}, fmt.Errorf("%w: %d", ErrInvalidSlot, idx)
	}
	return s[idx], nil
}

// Equipped returns the keys of all non-empty slots in slot order.
func (s *SkillSlots) Equipped() []string {
	keys := make([]string, 0, NumSkillSlots)
	for _, slot := range s {
		if slot.SkillKey != "" {
			keys = append(keys, slot.SkillKey)
		}
	}
	return keys
}

package court

import (
	"fmt"
	"strings"
)

// CheckOccupants returns ErrInvalidOccupant unless o is singles or doubles.
func CheckOccupants(o Occupants) error {
	if !o.Valid() {
		return fmt.Errorf("%w: got %d", ErrInvalidOccupant, int(o))
	}
	return nil
}

// NormalizeLabel trims the label and rejects an empty one.
func NormalizeLabel(label string) (string, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return "", ErrEmptyLabel
	}
	return label, nil
}

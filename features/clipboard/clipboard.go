// Package clipboard copies image metadata fields (and images) to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/sagan/mapic/constants"
	"github.com/sagan/mapic/features/aimeta"
)

// Fields that can be copied, as in the metadata page copy links.
var Fields = []string{"prompt", "negative", "seed", "model", "loras"}

// FieldValue returns the text copied for field of m.
// Absent values ("N/A" / "-") can not be copied.
func FieldValue(m *aimeta.ImageMetadata, field string) (string, error) {
	value, err := m.Field(field)
	if err != nil {
		return "", err
	}
	if value == constants.NA || value == constants.NONE {
		return "", fmt.Errorf("%s is absent", field)
	}
	return value, nil
}

// CopyField copies field of m. It returns the copied text.
func CopyField(m *aimeta.ImageMetadata, field string) (string, error) {
	value, err := FieldValue(m, field)
	if err != nil {
		return "", err
	}
	return value, CopyString(value)
}

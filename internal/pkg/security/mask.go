package security

import "strings"

// visible is the number of characters kept at each end of a masked secret.
const visible = 3

// MaskSecret redacts the middle of a credential for display. The first and
// last three characters stay visible and the output keeps the input's length.
// Values too short to hide anything meaningful are fully masked.
func MaskSecret(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 2*visible {
		return strings.Repeat("*", len(runes))
	}
	var b strings.Builder
	b.WriteString(string(runes[:visible]))
	b.WriteString(strings.Repeat("*", len(runes)-2*visible))
	b.WriteString(string(runes[len(runes)-visible:]))
	return b.String()
}

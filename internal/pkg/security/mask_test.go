package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "abc", want: "***"},
		{in: "abcdef", want: "******"},
		{in: "abcdefg", want: "abc*efg"},
		{in: "abcdefgh", want: "abc**fgh"},
		{in: "sk_live_supersecret", want: "sk_*************ret"},
	}

	for _, tt := range tests {
		got := MaskSecret(tt.in)
		assert.Equal(t, tt.want, got)
		assert.Len(t, got, len(tt.in))
	}
}

func TestMaskSecretNeverLeaksMiddle(t *testing.T) {
	secret := "abcdefghijklmnop"
	masked := MaskSecret(secret)
	assert.NotContains(t, masked, secret[3:len(secret)-3])
}

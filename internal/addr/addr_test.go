package addr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strotlog/smmusic/internal/spcerr"
)

func TestParseBusRoundTrip(t *testing.T) {
	cases := []string{
		"$80:8f0c",
		"$cf:be0d",
		"$ff:ffff",
		"80:8000", // no leading '$' is also accepted
	}
	for _, s := range cases {
		b, err := ParseBus(s)
		require.NoError(t, err)
		r := b.Rom()
		got := BusOf(r).String()
		want := s
		if want[0] != '$' {
			want = "$" + want
		}
		assert.Equal(t, want, got, "round trip for %s", s)
	}
}

func TestBusStringFormat(t *testing.T) {
	b := Bus{Bank: 0x80, Offset: 0x8f0c}
	assert.Equal(t, "$80:8f0c", b.String(), "bank must not be zero-padded")
}

func TestRomOfBusKnownExample(t *testing.T) {
	// $80:8F0C -> (0x80-0x80)*0x8000 + (0x8F0C-0x8000) = 0x0F0C
	b, err := ParseBus("$80:8F0C")
	require.NoError(t, err)
	assert.Equal(t, Rom(0x0F0C), b.Rom())
}

func TestParseBusMalformed(t *testing.T) {
	_, err := ParseBus("not-an-address")
	require.Error(t, err)
	var se *spcerr.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, spcerr.AddressFormat, se.Kind)
}

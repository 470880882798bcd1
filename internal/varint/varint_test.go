package varint_test

import (
	"errors"
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"e2estore/internal/domain"
	"e2estore/internal/varint"
)

func TestEncode_NarrowestClass(t *testing.T) {
	cases := []struct {
		v     uint64
		tag   byte
		bytes int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{0xff, 1, 1},
		{0x100, 2, 4},
		{0xffffffff, 2, 4},
		{0x100000000, 3, 8},
		{math.MaxUint64, 3, 8},
	}
	for _, c := range cases {
		tag, b := varint.Encode(c.v)
		require.Equal(t, c.tag, tag, "tag for %d", c.v)
		require.Len(t, b, c.bytes, "width for %d", c.v)
		require.Equal(t, 1+c.bytes, varint.Size(c.v))
	}
}

func TestEncode_BigEndian(t *testing.T) {
	_, b := varint.Encode(0x01020304)
	require.Equal(t, []byte{1, 2, 3, 4}, b)
	require.Equal(t, []byte{0x02, 1, 2, 3, 4}, varint.Append(nil, 0x01020304))
}

func TestDecodeEncode_Idempotent(t *testing.T) {
	values := []uint64{0, 1, 0xff, 0x100, 0xffffffff, 0x100000000, math.MaxUint64}
	f := fuzz.New().NilChance(0)
	for i := 0; i < 1000; i++ {
		var v uint64
		f.Fuzz(&v)
		values = append(values, v, v>>32, v>>56)
	}
	for _, v := range values {
		tag, b := varint.Encode(v)
		got, err := varint.Decode(tag, b)
		require.NoError(t, err)
		require.Equal(t, v, got)

		buf := varint.Append([]byte{0xaa}, v)
		got, n, err := varint.Consume(buf[1:])
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, len(buf)-1, n)
	}
}

func TestDecode_WidthMismatch(t *testing.T) {
	_, err := varint.Decode(2, []byte{1, 2})
	var fe *domain.FormatError
	require.True(t, errors.As(err, &fe))
	require.Equal(t, domain.WidthMismatch, fe.Kind)

	_, err = varint.Decode(0, []byte{0})
	require.True(t, errors.Is(err, &domain.FormatError{Kind: domain.WidthMismatch}))
}

func TestDecode_NonCanonical(t *testing.T) {
	_, err := varint.Decode(1, []byte{0})
	require.True(t, errors.Is(err, &domain.FormatError{Kind: domain.NonCanonical}))

	_, err = varint.Decode(3, []byte{0, 0, 0, 0, 0, 0, 0, 7})
	require.True(t, errors.Is(err, &domain.FormatError{Kind: domain.NonCanonical}))
}

func TestConsume_Errors(t *testing.T) {
	_, _, err := varint.Consume(nil)
	require.True(t, errors.Is(err, &domain.FormatError{Kind: domain.Truncated}))

	_, _, err = varint.Consume([]byte{0x03, 1, 2, 3})
	require.True(t, errors.Is(err, &domain.FormatError{Kind: domain.Truncated}))

	_, _, err = varint.Consume([]byte{0x05, 1})
	require.True(t, errors.Is(err, &domain.FormatError{Kind: domain.ReservedBits}))
}

package dictionary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dictload/dictionary"
	"github.com/hupe1980/dictload/testutil"
)

func TestKind(t *testing.T) {
	tests := []struct {
		kind  dictionary.Kind
		width int
		name  string
	}{
		{dictionary.KindUint8, 1, "uint8"},
		{dictionary.KindInt16, 2, "int16"},
		{dictionary.KindInt32, 4, "int32"},
		{dictionary.KindUint32, 4, "uint32"},
		{dictionary.Kind(42), 0, "Kind(42)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.width, tt.kind.Width())
			assert.Equal(t, tt.name, tt.kind.String())
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("int32", func(t *testing.T) {
		v, err := dictionary.Decode(dictionary.KindInt32, testutil.Int32s(0, -1, 1<<31-1, -1<<31))
		require.NoError(t, err)
		assert.Equal(t, []int32{0, -1, 1<<31 - 1, -1 << 31}, v)
	})

	t.Run("int16", func(t *testing.T) {
		v, err := dictionary.Decode(dictionary.KindInt16, testutil.Int16s(-2, 7))
		require.NoError(t, err)
		assert.Equal(t, []int16{-2, 7}, v)
	})

	t.Run("uint32", func(t *testing.T) {
		v, err := dictionary.Decode(dictionary.KindUint32, []byte{0x01, 0x00, 0x00, 0x80})
		require.NoError(t, err)
		assert.Equal(t, []uint32{0x80000001}, v)
	})

	t.Run("uint8 is a copy", func(t *testing.T) {
		raw := []byte{1, 2, 3}
		v, err := dictionary.Decode(dictionary.KindUint8, raw)
		require.NoError(t, err)

		raw[0] = 9
		assert.Equal(t, []uint8{1, 2, 3}, v)
	})

	t.Run("empty", func(t *testing.T) {
		v, err := dictionary.DecodeInt32(nil)
		require.NoError(t, err)
		assert.NotNil(t, v)
		assert.Empty(t, v)
	})
}

func TestDecode_InvalidLength(t *testing.T) {
	tests := []struct {
		kind   dictionary.Kind
		length int
	}{
		{dictionary.KindInt16, 3},
		{dictionary.KindInt32, 6},
		{dictionary.KindUint32, 1},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			_, err := dictionary.Decode(tt.kind, make([]byte, tt.length))

			var de *dictionary.DecodeError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.kind, de.Kind)
			assert.Equal(t, tt.length, de.Length)
		})
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := dictionary.Decode(dictionary.Kind(9), []byte{1})

	var de *dictionary.DecodeError
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Error(), "unknown kind")
}

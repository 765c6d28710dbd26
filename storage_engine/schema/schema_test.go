package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint64FieldOrderingMatchesByteOrdering(t *testing.T) {
	s := New(Field{Name: "id", Type: Uint64})

	a := make([]byte, s.RecordSize())
	b := make([]byte, s.RecordSize())
	s.EncodeUint64(a, 0, 10)
	s.EncodeUint64(b, 0, 20)

	require.Negative(t, Compare(a, b))
	require.Equal(t, uint64(10), s.DecodeUint64(a, 0))
}

func TestMinMaxKeyBoundEveryEncodedValue(t *testing.T) {
	s := New(Field{Name: "id", Type: Uint64}, Field{Name: "name", Type: FixedBytes, Size: 8})

	buf := make([]byte, s.RecordSize())
	s.EncodeUint64(buf, 0, 12345)
	s.EncodeFixedBytes(buf, 1, []byte("bob"))

	require.True(t, Compare(s.MinKey(), buf) <= 0)
	require.True(t, Compare(buf, s.MaxKey()) <= 0)
}

func TestFieldIndexLookup(t *testing.T) {
	s := New(Field{Name: "id", Type: Uint64}, Field{Name: "name", Type: FixedBytes, Size: 8})

	idx, err := s.FieldIndex("name")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	_, err = s.FieldIndex("missing")
	require.Error(t, err)
}

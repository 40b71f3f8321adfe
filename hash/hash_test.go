package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{SHA256, Blake3} {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()
			factory, err := New(kind)
			require.NoError(t, err)

			h := factory()
			require.Equal(t, Size, h.Size())
			h.Write([]byte("data"))
			a := h.Sum(nil)

			// same data -> same digest, independent instances
			other := factory()
			other.Write([]byte("data"))
			require.Equal(t, a, other.Sum(nil))

			other.Reset()
			other.Write([]byte("other"))
			require.NotEqual(t, a, other.Sum(nil))
		})
	}
}

func TestNew_DigestsDifferBetweenKinds(t *testing.T) {
	t.Parallel()

	sha, err := New(SHA256)
	require.NoError(t, err)
	b3, err := New(Blake3)
	require.NoError(t, err)

	a, b := sha(), b3()
	a.Write([]byte("data"))
	b.Write([]byte("data"))
	require.NotEqual(t, a.Sum(nil), b.Sum(nil))
}

func TestNew_Unknown(t *testing.T) {
	t.Parallel()

	_, err := New(Kind("md5"))
	require.ErrorIs(t, err, ErrUnknownHash)
}

func TestKind_UnmarshalFlag(t *testing.T) {
	t.Parallel()
	r := require.New(t)

	var k Kind
	r.NoError(k.UnmarshalFlag("blake3"))
	r.Equal(Blake3, k)

	r.ErrorIs(k.UnmarshalFlag("nope"), ErrUnknownHash)
	r.Equal(Blake3, k, "failed unmarshal must not modify the value")
}

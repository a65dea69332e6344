package backend

import (
	"encoding/base64"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/colcodec/pkg/errors"
)

func allBackends() []Backend {
	return []Backend{NewStd(), NewWide()}
}

func encode(be Backend, src []byte) string {
	dst := make([]byte, EncodedLen(len(src))+be.Padding())
	n := be.EncodeRow(dst, src)
	return string(dst[:n])
}

func decode(be Backend, src string) ([]byte, int) {
	dst := make([]byte, MaxDecodedLen(len(src))+be.Padding())
	n := be.DecodeRow(dst, []byte(src))
	return dst[:n], n
}

func TestEncodeKnownVectors(t *testing.T) {
	vectors := map[string]string{
		"":       "",
		"a":      "YQ==",
		"ab":     "YWI=",
		"abc":    "YWJj",
		"foobar": "Zm9vYmFy",
		"fooba":  "Zm9vYmE=",
		"\x00":   "AA==",
	}

	for _, be := range allBackends() {
		t.Run(be.Name(), func(t *testing.T) {
			for in, want := range vectors {
				assert.Equal(t, want, encode(be, []byte(in)), "input %q", in)
			}
		})
	}
}

func TestDecodeKnownVectors(t *testing.T) {
	vectors := map[string]string{
		"YQ==":     "a",
		"YWI=":     "ab",
		"YWJj":     "abc",
		"Zm9vYmFy": "foobar",
		"AA==":     "\x00",
	}

	for _, be := range allBackends() {
		t.Run(be.Name(), func(t *testing.T) {
			for in, want := range vectors {
				got, n := decode(be, in)
				require.NotZero(t, n, "input %q", in)
				assert.Equal(t, want, string(got), "input %q", in)
			}
		})
	}
}

func TestDecodeRejectsInvalid(t *testing.T) {
	invalidInputs := []string{
		"not-valid-base64",
		"YQ",
		"YQ=",
		"Y===",
		"YQ=A",
		"YQ==YQ==",
		"YW\nI=",
		"YWI=\r\n",
		"@@@@",
		"Zm9v YmFy",
	}

	for _, be := range allBackends() {
		t.Run(be.Name(), func(t *testing.T) {
			for _, in := range invalidInputs {
				_, n := decode(be, in)
				assert.Zero(t, n, "input %q", in)
			}
		})
	}
}

func TestBackendsAgreeWithStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, be := range allBackends() {
		t.Run(be.Name(), func(t *testing.T) {
			for i := 0; i < 500; i++ {
				src := make([]byte, rng.Intn(64))
				rng.Read(src)

				enc := encode(be, src)
				require.Equal(t, base64.StdEncoding.EncodeToString(src), enc)

				if len(src) == 0 {
					continue
				}
				got, n := decode(be, enc)
				require.Equal(t, len(src), n)
				require.Equal(t, src, got)
			}
		})
	}
}

func TestDecodeStaysWithinPadding(t *testing.T) {
	inputs := []string{
		"YQ==",             // padded group stored as a whole word
		"YWJj",             // one full group
		"YWJjZGVmZ2hp",     // eight-byte store then a four-byte store
		"YWJjZGVmYWJjZGVm", // two eight-byte stores
		"YWJjZGVmYWJjZA==", // eight-byte stores then a padded tail
	}
	for _, be := range allBackends() {
		be := be
		t.Run(be.Name(), func(t *testing.T) {
			for _, in := range inputs {
				src := []byte(in)
				dst := make([]byte, MaxDecodedLen(len(src))+be.Padding()+16)
				for i := range dst {
					dst[i] = 0xAA
				}

				n := be.DecodeRow(dst, src)
				require.NotZero(t, n, in)
				for i := n + be.Padding(); i < len(dst); i++ {
					assert.Equal(t, byte(0xAA), dst[i], "%s: byte %d beyond padding was touched", in, i)
				}
			}
		})
	}
}

func TestWideDecodeExactDestination(t *testing.T) {
	// No room for the word store: the byte-store fallback is used.
	dst := make([]byte, 3)
	n := NewWide().DecodeRow(dst, []byte("YWJj"))
	require.Equal(t, 3, n)
	assert.Equal(t, "abc", string(dst))
}

func TestLenHelpers(t *testing.T) {
	assert.Equal(t, 0, EncodedLen(0))
	assert.Equal(t, 4, EncodedLen(1))
	assert.Equal(t, 4, EncodedLen(3))
	assert.Equal(t, 8, EncodedLen(4))
	assert.Equal(t, 3, MaxDecodedLen(4))
	assert.Equal(t, 6, MaxDecodedLen(5))
}

func TestLookup(t *testing.T) {
	be, err := Lookup(StdName)
	require.NoError(t, err)
	assert.Equal(t, StdName, be.Name())

	auto, err := Lookup(AutoName)
	require.NoError(t, err)
	assert.Equal(t, Detect(), auto.Name())

	_, err = Lookup("avx512")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestRegister(t *testing.T) {
	require.NoError(t, Register("test-std", NewStd))
	assert.Contains(t, Names(), "test-std")

	err := Register("test-std", NewStd)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Error(t, Register(AutoName, NewStd))
}

func TestDetect(t *testing.T) {
	assert.Equal(t, WideName, detect(CPUFeatures{AVX2: true}))
	assert.Equal(t, WideName, detect(CPUFeatures{ASIMD: true}))
	assert.Equal(t, StdName, detect(CPUFeatures{}))
}

package exrng

import (
	"bytes"
	"io"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ascending() [Capacity]byte {
	var buf [Capacity]byte
	for i := range buf {
		buf[i] = byte(i)
	}
	return buf
}

func TestFillAllOnes(t *testing.T) {
	var buf [Capacity]byte
	for i := range buf {
		buf[i] = 0x01
	}
	rng := MustNew(buf, 32)

	dest := make([]byte, 32)
	rng.Fill(dest)

	assert.Equal(t, bytes.Repeat([]byte{0x01}, 32), dest)
}

func TestFillPrefix(t *testing.T) {
	rng := MustNew(ascending(), 32)

	dest := make([]byte, 8)
	rng.Fill(dest)

	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, dest)
}

func TestFillEveryPrefixLength(t *testing.T) {
	buf := ascending()
	for declared := 0; declared <= Capacity; declared++ {
		rng := MustNew(buf, declared)
		for n := 0; n <= declared; n++ {
			dest := make([]byte, n)
			rng.Fill(dest)
			require.Equal(t, buf[:n], dest, "declared=%d n=%d", declared, n)
		}
	}
}

func TestFillOverwritesDestination(t *testing.T) {
	rng := MustNew(ascending(), 16)

	dest := bytes.Repeat([]byte{0xff}, 16)
	rng.Fill(dest)

	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, dest)
}

func TestFillIsIdempotent(t *testing.T) {
	rng := MustNew(ascending(), 32)

	first := make([]byte, 20)
	second := make([]byte, 20)
	rng.Fill(first)
	rng.Fill(second)

	assert.Equal(t, first, second)
}

func TestTryFillMatchesFill(t *testing.T) {
	rng := MustNew(ascending(), 24)

	for _, n := range []int{0, 1, 12, 24} {
		want := make([]byte, n)
		got := make([]byte, n)
		rng.Fill(want)
		require.NoError(t, rng.TryFill(got))
		assert.Equal(t, want, got)
	}
}

func TestReadFull(t *testing.T) {
	rng := MustNew(ascending(), 32)

	dest := make([]byte, 32)
	n, err := io.ReadFull(rng, dest)
	require.NoError(t, err)
	assert.Equal(t, 32, n)

	want := ascending()
	assert.Equal(t, want[:], dest)
}

func TestFillPastDeclaredLength(t *testing.T) {
	rng := MustNew(ascending(), 4)
	full := ascending()

	tests := []struct {
		name string
		size int
		read bool
		want []byte
	}{
		{
			name: "within capacity returns bytes past declared length",
			size: 6,
			want: []byte{0, 1, 2, 3, 4, 5},
		},
		{
			name: "past capacity leaves destination tail untouched",
			size: 40,
			want: append(append([]byte{}, full[:]...), bytes.Repeat([]byte{0xee}, 8)...),
		},
		{
			name: "read reports full length",
			size: 64,
			read: true,
			want: append(append([]byte{}, full[:]...), bytes.Repeat([]byte{0xee}, 32)...),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := bytes.Repeat([]byte{0xee}, tt.size)
			if tt.read {
				n, err := io.ReadFull(rng, dest)
				require.NoError(t, err)
				assert.Equal(t, tt.size, n)
			} else {
				rng.Fill(dest)
			}
			assert.Equal(t, tt.want, dest)
		})
	}
}

func TestScalarDrawsPanic(t *testing.T) {
	sources := map[string]*ExternalRNG{
		"zero length": MustNew([Capacity]byte{}, 0),
		"full":        MustNew(ascending(), Capacity),
	}
	for name, rng := range sources {
		t.Run(name, func(t *testing.T) {
			require.PanicsWithError(t, ErrScalarDraw.Error(), func() { rng.Uint32() })
			require.PanicsWithError(t, ErrScalarDraw.Error(), func() { rng.Uint64() })
		})
	}
}

func TestMathRandDrawPanics(t *testing.T) {
	r := rand.New(MustNew(ascending(), Capacity))
	require.Panics(t, func() { r.IntN(10) })
}

func TestNewValidatesLength(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr error
	}{
		{name: "zero", n: 0},
		{name: "partial", n: 16},
		{name: "capacity", n: Capacity},
		{name: "over capacity", n: Capacity + 1, wantErr: ErrLengthExceedsCapacity},
		{name: "negative", n: -1, wantErr: ErrNegativeLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng, err := New(ascending(), tt.n)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, rng)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, rng.Len())
			assert.Equal(t, Capacity, rng.Cap())
		})
	}
}

func TestMustNewPanicsOverCapacity(t *testing.T) {
	require.Panics(t, func() { MustNew([Capacity]byte{}, Capacity+1) })
}

func TestFromSlice(t *testing.T) {
	rng, err := FromSlice([]byte{9, 8, 7})
	require.NoError(t, err)
	assert.Equal(t, 3, rng.Len())

	dest := make([]byte, 3)
	rng.Fill(dest)
	assert.Equal(t, []byte{9, 8, 7}, dest)

	_, err = FromSlice(make([]byte, Capacity+1))
	require.ErrorIs(t, err, ErrLengthExceedsCapacity)
}

func TestFromSliceCopiesInput(t *testing.T) {
	in := []byte{1, 2, 3, 4}
	rng, err := FromSlice(in)
	require.NoError(t, err)

	in[0] = 0xee
	dest := make([]byte, 4)
	rng.Fill(dest)
	assert.Equal(t, []byte{1, 2, 3, 4}, dest)
}

func TestConcurrentFill(t *testing.T) {
	rng := MustNew(ascending(), Capacity)
	want := ascending()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dest := make([]byte, Capacity)
			for j := 0; j < 100; j++ {
				rng.Fill(dest)
				if !bytes.Equal(want[:], dest) {
					t.Errorf("concurrent fill returned %x", dest)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestCheckedWithinBounds(t *testing.T) {
	c := Checked(MustNew(ascending(), 8))

	dest := make([]byte, 8)
	c.Fill(dest)
	assert.Equal(t, []byte{0, 1, 2, 3, 4, 5, 6, 7}, dest)

	require.NoError(t, c.TryFill(dest[:4]))
	n, err := c.Read(dest)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, 8, c.Len())
}

func TestCheckedCatchesOversizedRequest(t *testing.T) {
	c := Checked(MustNew(ascending(), 8))

	for name, call := range map[string]func(){
		"Fill":    func() { c.Fill(make([]byte, 9)) },
		"TryFill": func() { _ = c.TryFill(make([]byte, 9)) },
		"Read":    func() { _, _ = c.Read(make([]byte, 9)) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				err, ok := r.(error)
				require.True(t, ok)
				assert.ErrorIs(t, err, ErrContractViolation)
			}()
			call()
		})
	}
}

func TestCheckedScalarDrawsPanic(t *testing.T) {
	c := Checked(MustNew(ascending(), Capacity))
	require.PanicsWithError(t, ErrScalarDraw.Error(), func() { c.Uint32() })
	require.PanicsWithError(t, ErrScalarDraw.Error(), func() { c.Uint64() })
}

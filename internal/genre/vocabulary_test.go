// AngelaMos | 2026
// vocabulary_test.go

package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reference = []string{
	"Western", "Mystery", "Thriller", "Sci-Fi", "Romance", "Musical", "Horror",
	"Historical", "Fantasy", "Drama", "Comedy", "Animation", "Adventure", "Action",
}

func mustVocab(t *testing.T, labels ...string) *Vocabulary {
	t.Helper()
	v, err := NewVocabulary(labels)
	require.NoError(t, err)
	return v
}

func TestNewVocabularyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
	}{
		{name: "empty", labels: nil},
		{name: "blank label", labels: []string{"Action", ""}},
		{name: "duplicate", labels: []string{"Action", "Comedy", "Action"}},
		{name: "too many", labels: make([]string, MaxLabels+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVocabulary(tt.labels)
			assert.ErrorIs(t, err, ErrInvalidVocab)
		})
	}
}

func TestEncodeUsesVocabularyPosition(t *testing.T) {
	v := mustVocab(t, reference...)

	bitmap, err := v.Encode([]string{"Action", "Western"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<13|1), bitmap)

	bitmap, err = v.Encode(nil)
	require.NoError(t, err)
	assert.Zero(t, bitmap)
}

func TestEncodeRejectsUnknownLabel(t *testing.T) {
	v := mustVocab(t, "Action", "Comedy")

	_, err := v.Encode([]string{"Action", "Documentary"})
	assert.ErrorIs(t, err, ErrUnknownLabel)

	_, err = v.Bit("action")
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestDecodeFollowsVocabularyOrder(t *testing.T) {
	v := mustVocab(t, "Action", "Comedy", "Drama")

	bitmap, err := v.Encode([]string{"Drama", "Action"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Action", "Drama"}, v.Decode(bitmap))
	assert.Empty(t, v.Decode(0))
}

func TestDecodeIgnoresBitsBeyondVocabulary(t *testing.T) {
	v := mustVocab(t, "Action", "Comedy")

	assert.Equal(t, []string{"Comedy"}, v.Decode(0b10|1<<2|1<<40|1<<63))
	assert.Error(t, v.Validate(1<<2))
	assert.NoError(t, v.Validate(0b11))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := mustVocab(t, reference...)

	for b := uint64(0); b <= v.Mask(); b += 37 {
		got, err := v.Encode(v.Decode(b))
		require.NoError(t, err)
		require.Equal(t, b, got, "bitmap %#x", b)
	}

	got, err := v.Encode(v.Decode(v.Mask()))
	require.NoError(t, err)
	assert.Equal(t, v.Mask(), got)
}

func TestHas(t *testing.T) {
	v := mustVocab(t, "Action", "Comedy")

	assert.True(t, v.Has(0b11, "Comedy"))
	assert.False(t, v.Has(0b01, "Comedy"))
	assert.False(t, v.Has(0b11, "Horror"))
}

func TestLabelsReturnsCopy(t *testing.T) {
	v := mustVocab(t, "Action", "Comedy")

	labels := v.Labels()
	labels[0] = "Mutated"

	assert.Equal(t, []string{"Action", "Comedy"}, v.Labels())
}

func TestCheckAppendOnly(t *testing.T) {
	v := mustVocab(t, "Action", "Comedy", "Drama")

	added, err := v.CheckAppendOnly(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Action", "Comedy", "Drama"}, added)

	added, err = v.CheckAppendOnly([]string{"Action", "Comedy"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama"}, added)

	added, err = v.CheckAppendOnly([]string{"Action", "Comedy", "Drama"})
	require.NoError(t, err)
	assert.Empty(t, added)

	_, err = v.CheckAppendOnly([]string{"Comedy", "Action"})
	assert.ErrorIs(t, err, ErrIncompatibleVocab)

	_, err = v.CheckAppendOnly([]string{"Action", "Comedy", "Drama", "Horror"})
	assert.ErrorIs(t, err, ErrIncompatibleVocab)
}

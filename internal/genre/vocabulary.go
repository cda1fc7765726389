// AngelaMos | 2026
// vocabulary.go

// Package genre maps a fixed, ordered list of genre labels onto bit
// positions of a uint64. Label i owns bit 1<<i.
//
// The mapping is positional, so the vocabulary is append-only: once a bitmap
// has been stored with a given vocabulary, existing labels must keep their
// positions forever. New labels may only be added at the end.
package genre

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLabels keeps every bit inside a signed BIGINT column.
const MaxLabels = 63

var (
	ErrUnknownLabel      = errors.New("unknown genre label")
	ErrInvalidVocab      = errors.New("invalid genre vocabulary")
	ErrIncompatibleVocab = errors.New("genre vocabulary is not append-only compatible")
)

type Vocabulary struct {
	labels []string
	index  map[string]int
}

func NewVocabulary(labels []string) (*Vocabulary, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrInvalidVocab)
	}
	if len(labels) > MaxLabels {
		return nil, fmt.Errorf("%w: %d labels exceeds %d", ErrInvalidVocab, len(labels), MaxLabels)
	}

	v := &Vocabulary{
		labels: make([]string, len(labels)),
		index:  make(map[string]int, len(labels)),
	}

	for i, label := range labels {
		if strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("%w: empty label at position %d", ErrInvalidVocab, i)
		}
		if _, dup := v.index[label]; dup {
			return nil, fmt.Errorf("%w: duplicate label %q", ErrInvalidVocab, label)
		}
		v.labels[i] = label
		v.index[label] = i
	}

	return v, nil
}

func (v *Vocabulary) Len() int {
	return len(v.labels)
}

func (v *Vocabulary) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Mask has exactly the bits the vocabulary defines.
func (v *Vocabulary) Mask() uint64 {
	return uint64(1)<<uint(len(v.labels)) - 1
}

func (v *Vocabulary) Bit(label string) (uint64, error) {
	i, ok := v.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return uint64(1) << uint(i), nil
}

// Encode ORs the bit of every label. Any unknown label rejects the whole set.
func (v *Vocabulary) Encode(labels []string) (uint64, error) {
	var bitmap uint64
	for _, label := range labels {
		bit, err := v.Bit(label)
		if err != nil {
			return 0, err
		}
		bitmap |= bit
	}
	return bitmap, nil
}

// Decode lists set labels in vocabulary order. Bits at or above Len are
// ignored.
func (v *Vocabulary) Decode(bitmap uint64) []string {
	out := make([]string, 0, len(v.labels))
	for i, label := range v.labels {
		if bitmap&(uint64(1)<<uint(i)) != 0 {
			out = append(out, label)
		}
	}
	return out
}

func (v *Vocabulary) Has(bitmap uint64, label string) bool {
	bit, err := v.Bit(label)
	if err != nil {
		return false
	}
	return bitmap&bit != 0
}

// Validate rejects bitmaps carrying bits the vocabulary does not define.
// Used on write paths; read paths rely on Decode ignoring them.
func (v *Vocabulary) Validate(bitmap uint64) error {
	if extra := bitmap &^ v.Mask(); extra != 0 {
		return fmt.Errorf("%w: bitmap %#x sets undefined bits %#x", ErrUnknownLabel, bitmap, extra)
	}
	return nil
}

// CheckAppendOnly verifies that stored, the vocabulary previously persisted,
// is a prefix of v. It returns the labels v appends.
func (v *Vocabulary) CheckAppendOnly(stored []string) ([]string, error) {
	if len(stored) > len(v.labels) {
		return nil, fmt.Errorf(
			"%w: %d stored labels but only %d configured",
			ErrIncompatibleVocab, len(stored), len(v.labels),
		)
	}

	for i, label := range stored {
		if v.labels[i] != label {
			return nil, fmt.Errorf(
				"%w: bit %d is %q in storage but %q in config",
				ErrIncompatibleVocab, i, label, v.labels[i],
			)
		}
	}

	return v.Labels()[len(stored):], nil
}

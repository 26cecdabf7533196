package depot

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestSignature(t *testing.T) {
	tests := []struct {
		name    string
		sig     Signature
		has     []FamilyID
		missing []FamilyID
	}{
		{
			name:    "empty",
			sig:     NewSignature(),
			missing: []FamilyID{0, 1, 63},
		},
		{
			name:    "single",
			sig:     NewSignature(5),
			has:     []FamilyID{5},
			missing: []FamilyID{0, 4, 6},
		},
		{
			name:    "several",
			sig:     NewSignature(0, 3, 63),
			has:     []FamilyID{0, 3, 63},
			missing: []FamilyID{1, 2, 62},
		},
		{
			name:    "with",
			sig:     NewSignature(1).With(2),
			has:     []FamilyID{1, 2},
			missing: []FamilyID{0, 3},
		},
		{
			name:    "without",
			sig:     NewSignature(1, 2).Without(1),
			has:     []FamilyID{2},
			missing: []FamilyID{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, id := range tt.has {
				assert.Assert(t, tt.sig.Has(id), "expected %d", id)
			}
			for _, id := range tt.missing {
				assert.Assert(t, !tt.sig.Has(id), "unexpected %d", id)
			}
		})
	}
}

func TestSignatureIsValue(t *testing.T) {
	base := NewSignature(1, 2)
	added := base.With(3)
	removed := base.Without(2)

	assert.Assert(t, !base.Has(3))
	assert.Assert(t, base.Has(2))
	assert.Assert(t, added.Has(3))
	assert.Assert(t, !removed.Has(2))
}

func TestSignatureEquality(t *testing.T) {
	assert.Equal(t, NewSignature(3, 1, 2), NewSignature(1, 2, 3))
	assert.Equal(t, NewSignature(1, 1, 2), NewSignature(1, 2))
	assert.Equal(t, NewSignature(4).Without(4), Signature{})
	assert.Assert(t, NewSignature(4).Without(4).IsEmpty())
	assert.Assert(t, NewSignature(1) != NewSignature(2))

	seen := map[Signature]int{NewSignature(1, 2): 1}
	assert.Equal(t, seen[NewSignature(2, 1)], 1)
}

func TestSignatureContainsAll(t *testing.T) {
	sig := NewSignature(1, 2, 3)
	assert.Assert(t, sig.ContainsAll(NewSignature(1, 3)))
	assert.Assert(t, sig.ContainsAll(Signature{}))
	assert.Assert(t, !sig.ContainsAll(NewSignature(1, 4)))
}

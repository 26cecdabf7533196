package depot

import "github.com/TheBitDrifter/mask"

// Signature is the exact component set of an archetype: bit i is set when the component
// with family id i is present. Signatures are comparable and are used as map keys.
type Signature struct {
	bits mask.Mask
}

// NewSignature returns the signature containing exactly ids.
func NewSignature(ids ...FamilyID) Signature {
	var sig Signature
	for _, id := range ids {
		sig.bits.Mark(uint32(id))
	}
	return sig
}

func (s Signature) Has(id FamilyID) bool {
	return s.bits.ContainsAll(NewSignature(id).bits)
}

func (s Signature) With(id FamilyID) Signature {
	s.bits.Mark(uint32(id))
	return s
}

func (s Signature) Without(id FamilyID) Signature {
	s.bits.Unmark(uint32(id))
	return s
}

// ContainsAll reports whether every component of other is also in s.
func (s Signature) ContainsAll(other Signature) bool {
	return s.bits.ContainsAll(other.bits)
}

func (s Signature) IsEmpty() bool {
	return s == Signature{}
}

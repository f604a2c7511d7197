package vcf

// Dosage is an alternate-allele count: 0 or 1 for a haplotype, 0 to 2 for a
// diploid genotype, or Missing.
type Dosage int8

// Missing marks a haplotype dosage that could not be determined.  It is only
// produced for unphased calls when phasing validation is disabled.
const Missing Dosage = -1

// Call is a decoded diploid phased genotype.
type Call struct {
	H1, H2 Dosage
}

// Haplotype returns the dosage of haplotype 1 or 2.
func (c Call) Haplotype(h int) Dosage {
	if h == 1 {
		return c.H1
	}
	return c.H2
}

// gtField strips the FORMAT subfields following GT, if any.
func gtField(token []byte) []byte {
	for i, c := range token {
		if c == ':' {
			return token[:i]
		}
	}
	return token
}

func allele(c byte) (Dosage, bool) {
	switch c {
	case '0':
		return 0, true
	case '1':
		return 1, true
	}
	return 0, false
}

// DecodeGenotype parses a modern sample token.
//
//   "a|b"  ->  Call{a, b}
//   "./."  ->  Call{0, 0}
//   "a/b"  ->  ErrUnphased if checkPhasing, else Call{Missing, Missing}
//
// where a, b are '0' or '1'.  Anything else yields a *GenotypeError.
func DecodeGenotype(token []byte, checkPhasing bool) (Call, error) {
	gt := gtField(token)
	if len(gt) != 3 {
		return Call{}, &GenotypeError{Token: string(token)}
	}
	if gt[0] == '.' && gt[1] == '/' && gt[2] == '.' {
		return Call{}, nil
	}
	a, okA := allele(gt[0])
	b, okB := allele(gt[2])
	if !okA || !okB {
		return Call{}, &GenotypeError{Token: string(token)}
	}
	switch gt[1] {
	case '|':
		return Call{H1: a, H2: b}, nil
	case '/':
		if checkPhasing {
			return Call{}, ErrUnphased
		}
		return Call{H1: Missing, H2: Missing}, nil
	}
	return Call{}, &GenotypeError{Token: string(token)}
}

// DecodeDiploidDosage parses an archaic sample token as the sum of its two
// allele digits.  Only the first three characters are looked at, phasing is
// ignored, and a '.' digit counts as 0.
func DecodeDiploidDosage(token []byte) (Dosage, error) {
	if len(token) < 3 {
		return 0, &GenotypeError{Token: string(token)}
	}
	var sum Dosage
	for _, c := range [2]byte{token[0], token[2]} {
		if c == '.' {
			continue
		}
		d, ok := allele(c)
		if !ok {
			return 0, &GenotypeError{Token: string(token)}
		}
		sum += d
	}
	return sum, nil
}

package raw

import "strings"

// EncodeGenotype converts a raw genotype call into a reference allele and a
// list of alternate alleles. A homozygous call yields no alternates; a
// heterozygous call yields one. Supported shapes are the two-letter compact
// form ("AG") and the slash/pipe form ("A/G", "A|G"). Anything else falls
// back to reference "N" with no alternates; the record is still written
// rather than dropped.
func EncodeGenotype(genotype string) (ref string, alts []string) {
	genotype = strings.ToUpper(strings.TrimSpace(genotype))

	if len(genotype) == 2 {
		a1, a2 := string(genotype[0]), string(genotype[1])
		if a1 == a2 {
			return a1, nil
		}
		return a1, []string{a2}
	}

	if strings.ContainsAny(genotype, "/|") {
		sep := "/"
		if !strings.Contains(genotype, "/") {
			sep = "|"
		}
		alleles := strings.Split(genotype, sep)
		if len(alleles) == 2 {
			a1 := strings.TrimSpace(alleles[0])
			a2 := strings.TrimSpace(alleles[1])
			if a1 == a2 {
				return a1, nil
			}
			return a1, []string{a2}
		}
	}

	return "N", nil
}

// ToVCFFields renders encoded alleles as the ALT and GT columns of a VCF
// data line: "." and "0/0" for homozygous reference, the joined alternates
// and "0/1" otherwise.
func ToVCFFields(ref string, alts []string) (alt, gt string) {
	if len(alts) == 0 {
		return ".", "0/0"
	}
	return strings.Join(alts, ","), "0/1"
}

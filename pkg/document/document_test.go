package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want bool
	}{
		{"valid cpf", "52998224725", true},
		{"cpf wrong first digit", "52998224715", false},
		{"cpf wrong second digit", "52998224724", false},
		{"valid cnpj", "11222333000181", true},
		{"cnpj wrong check digits", "11222333000182", false},
		{"repeated digits", "11111111111", false},
		{"too short", "1234567890", false},
		{"between lengths", "123456789012", false},
		{"letters", "5299822472a", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValid(tc.doc))
		})
	}
}

func TestGeneratedDocumentsAreValid(t *testing.T) {
	for i := 0; i < 200; i++ {
		cpf := GenerateCPF()
		assert.Len(t, cpf, 11)
		assert.True(t, IsValid(cpf), cpf)

		cnpj := GenerateCNPJ()
		assert.Len(t, cnpj, 14)
		assert.True(t, IsValid(cnpj), cnpj)
	}
}

func TestGenerate(t *testing.T) {
	assert.Len(t, Generate(CPF), 11)
	assert.Len(t, Generate(CNPJ), 14)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "52998224725", Normalize("529.982.247-25"))
	assert.Equal(t, "11222333000181", Normalize("11.222.333/0001-81"))
	assert.True(t, IsValid(Normalize(" 529.982.247-25 ")))
}

func TestKindOf(t *testing.T) {
	k, ok := KindOf("52998224725")
	assert.True(t, ok)
	assert.Equal(t, CPF, k)

	k, ok = KindOf("11222333000181")
	assert.True(t, ok)
	assert.Equal(t, CNPJ, k)

	_, ok = KindOf("123")
	assert.False(t, ok)
}

// checkDigitsMatch recomputes the check digits from the published weight
// tables, independently of the package helpers.
func checkDigitsMatch(doc string) bool {
	tables := map[int][2][]int{
		cpfLen:  {{10, 9, 8, 7, 6, 5, 4, 3, 2}, {11, 10, 9, 8, 7, 6, 5, 4, 3, 2}},
		cnpjLen: {{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}, {6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}},
	}
	w := tables[len(doc)]
	for _, weights := range w {
		sum := 0
		for i, wt := range weights {
			sum += int(doc[i]-'0') * wt
		}
		want := 11 - sum%11
		if want > 9 {
			want = 0
		}
		if int(doc[len(weights)]-'0') != want {
			return false
		}
	}
	return true
}

func TestSingleDigitMutationsRejected(t *testing.T) {
	for _, kind := range []Kind{CPF, CNPJ} {
		t.Run(string(kind), func(t *testing.T) {
			var mutations, accepted int
			for n := 0; n < 50; n++ {
				doc := Generate(kind)
				for pos := 0; pos < len(doc); pos++ {
					for d := byte('0'); d <= '9'; d++ {
						if doc[pos] == d {
							continue
						}
						mutated := []byte(doc)
						mutated[pos] = d
						m := string(mutated)
						mutations++
						if !IsValid(m) {
							continue
						}
						accepted++
						assert.True(t, checkDigitsMatch(m), "mutation %s of %s accepted without a checksum collision", m, doc)
					}
				}
			}
			assert.Less(t, float64(accepted)/float64(mutations), 0.05)
		})
	}
}

// Package document validates and generates Brazilian taxpayer documents:
// CPF (individuals, 11 digits) and CNPJ (companies, 14 digits).
package document

import (
	"math/rand"
	"strings"
)

type Kind string

const (
	CPF  Kind = "cpf"
	CNPJ Kind = "cnpj"

	cpfLen  = 11
	cnpjLen = 14
)

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// Normalize strips the punctuation commonly used when formatting documents
// (123.456.789-09, 12.345.678/0001-95).
func Normalize(doc string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '/', ' ':
			return -1
		}
		return r
	}, doc)
}

// KindOf reports the document kind by length. ok is false for any other length.
func KindOf(doc string) (Kind, bool) {
	switch len(doc) {
	case cpfLen:
		return CPF, true
	case cnpjLen:
		return CNPJ, true
	}
	return "", false
}

// IsValid reports whether doc is a well-formed CPF or CNPJ with matching
// check digits. Input must already be normalized. Documents made of one
// repeated digit, such as 00000000000, are refused even though their check
// digits match.
func IsValid(doc string) bool {
	kind, ok := KindOf(doc)
	if !ok {
		return false
	}
	digits, ok := toDigits(doc)
	if !ok || allSame(digits) {
		return false
	}
	n := len(digits)
	body := digits[:n-2]
	var d1, d2 int
	if kind == CPF {
		d1 = cpfDigit(body)
		d2 = cpfDigit(append(body[:len(body):len(body)], d1))
	} else {
		d1 = cnpjDigit(body)
		d2 = cnpjDigit(append(body[:len(body):len(body)], d1))
	}
	return digits[n-2] == d1 && digits[n-1] == d2
}

// GenerateCPF returns a random CPF with valid check digits.
func GenerateCPF() string {
	return generate(cpfLen-2, cpfDigit)
}

// GenerateCNPJ returns a random CNPJ with valid check digits.
func GenerateCNPJ() string {
	return generate(cnpjLen-2, cnpjDigit)
}

// Generate returns a random valid document of the given kind.
func Generate(kind Kind) string {
	if kind == CNPJ {
		return GenerateCNPJ()
	}
	return GenerateCPF()
}

func generate(size int, digit func([]int) int) string {
	for {
		nums := make([]int, 0, size+2)
		for i := 0; i < size; i++ {
			nums = append(nums, rand.Intn(10))
		}
		if allSame(nums) {
			continue
		}
		nums = append(nums, digit(nums))
		nums = append(nums, digit(nums))

		var b strings.Builder
		b.Grow(len(nums))
		for _, d := range nums {
			b.WriteByte(byte('0' + d))
		}
		return b.String()
	}
}

// cpfDigit weights the digits from len+1 down to 2.
func cpfDigit(nums []int) int {
	sum := 0
	weight := len(nums) + 1
	for _, d := range nums {
		sum += d * weight
		weight--
	}
	return checkDigit(sum)
}

// cnpjDigit uses the trailing weights of the 13-position table, so the first
// digit (12 inputs) runs 5,4,3,2,9..2 and the second (13 inputs) 6,5,4,3,2,9..2.
func cnpjDigit(nums []int) int {
	weights := cnpjWeights[len(cnpjWeights)-len(nums):]
	sum := 0
	for i, d := range nums {
		sum += d * weights[i]
	}
	return checkDigit(sum)
}

func checkDigit(sum int) int {
	d := 11 - sum%11
	if d > 9 {
		return 0
	}
	return d
}

func toDigits(s string) ([]int, bool) {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		out[i] = int(c - '0')
	}
	return out, true
}

func allSame(nums []int) bool {
	for _, d := range nums[1:] {
		if d != nums[0] {
			return false
		}
	}
	return true
}

package usecase

import (
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultAliasLength is the length of generated aliases.
	DefaultAliasLength = 6
	// DefaultAliasAlphabet holds the 62 alphanumeric symbols aliases are drawn from.
	DefaultAliasAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var errInvalidGenerator = errors.New("invalid alias generator settings")

// AliasGenerator produces fixed-length random aliases drawn uniformly from an alphabet.
// It does not guarantee uniqueness.
type AliasGenerator struct {
	alphabet string
	length   int
}

func NewAliasGenerator(alphabet string, length int) (*AliasGenerator, error) {
	const op = "usecase.NewAliasGenerator"

	if !isValidAlphabet(alphabet) || length <= 0 {
		return nil, fmt.Errorf("%s: %w: alphabet=%q length=%d", op, errInvalidGenerator, alphabet, length)
	}

	return &AliasGenerator{
		alphabet: alphabet,
		length:   length,
	}, nil
}

func (g *AliasGenerator) Generate() (string, error) {
	const op = "usecase.AliasGenerator.Generate"

	alias, err := gonanoid.Generate(g.alphabet, g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate alias: %w", op, err)
	}

	return alias, nil
}

// isValidAlphabet requires at least two distinct symbols and no repeats.
func isValidAlphabet(alphabet string) bool {
	seen := make(map[rune]struct{}, len(alphabet))
	for _, r := range alphabet {
		if _, ok := seen[r]; ok {
			return false
		}
		seen[r] = struct{}{}
	}

	return len(seen) >= 2
}

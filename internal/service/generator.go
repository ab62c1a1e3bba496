package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"securevault/internal/crypto"
	"securevault/internal/errs"
	"securevault/internal/model"
)

// Character classes. Class order in the combined set follows the options order
// and has no effect on draw probabilities.
const (
	charsLower   = "abcdefghijklmnopqrstuvwxyz"
	charsUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsDigits  = "0123456789"
	charsSymbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// similarChars are easily confused glyphs removed by ExcludeSimilar.
	similarChars = "il1Lo0O"
	// ambiguousChars are punctuation removed by ExcludeAmbiguous.
	ambiguousChars = "{}[]()/\\'\"~,;<>."
)

// GeneratorService produces random passwords from a configurable character set.
type GeneratorService interface {
	// Generate returns a password of exactly length characters drawn uniformly
	// from the enabled classes minus exclusions. An empty character set fails
	// with errs.ErrValidation and leaves the activity log untouched.
	Generate(ctx context.Context, length int, opts model.GeneratorOptions) (string, error)
	// Presets returns the fixed named configurations.
	Presets() []model.Preset
}

type GeneratorServiceImpl struct {
	activity ActivityService
	log      *zap.Logger
}

// NewGeneratorService constructs GeneratorService.
func NewGeneratorService(activity ActivityService, log *zap.Logger) *GeneratorServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &GeneratorServiceImpl{activity: activity, log: log}
}

// Charset builds the draw set for the given options.
func Charset(opts model.GeneratorOptions) string {
	var b strings.Builder
	if opts.Lowercase {
		b.WriteString(charsLower)
	}
	if opts.Uppercase {
		b.WriteString(charsUpper)
	}
	if opts.Numbers {
		b.WriteString(charsDigits)
	}
	if opts.Symbols {
		b.WriteString(charsSymbols)
	}
	set := b.String()
	if opts.ExcludeSimilar {
		set = exclude(set, similarChars)
	}
	if opts.ExcludeAmbiguous {
		set = exclude(set, ambiguousChars)
	}
	return set
}

func exclude(set, drop string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(drop, r) {
			return -1
		}
		return r
	}, set)
}

// Generate draws every character independently from crypto/rand. A general-
// purpose PRNG must never stand behind this output.
func (s *GeneratorServiceImpl) Generate(ctx context.Context, length int, opts model.GeneratorOptions) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("length must be positive: %w", errs.ErrValidation)
	}
	set := Charset(opts)
	if set == "" {
		return "", fmt.Errorf("select at least one character type: %w", errs.ErrValidation)
	}

	out := make([]byte, length)
	for i := range out {
		idx, err := crypto.RandIndex(len(set))
		if err != nil {
			return "", err
		}
		out[i] = set[idx]
	}

	if err := s.activity.Append(ctx, "Generate Password",
		fmt.Sprintf("Generated a %d-character password", length)); err != nil {
		s.log.Warn("activity append failed", zap.Error(err))
	}
	return string(out), nil
}

// Presets returns the three fixed configurations; applying one replaces the
// current options atomically.
func (s *GeneratorServiceImpl) Presets() []model.Preset {
	return []model.Preset{
		{
			Name:        "High Security",
			Description: "Maximum security for critical accounts",
			Length:      20,
			Options: model.GeneratorOptions{
				Uppercase: true, Lowercase: true, Numbers: true, Symbols: true,
				ExcludeSimilar: true,
			},
		},
		{
			Name:        "Balanced",
			Description: "Good balance of security and usability",
			Length:      16,
			Options: model.GeneratorOptions{
				Uppercase: true, Lowercase: true, Numbers: true, Symbols: true,
			},
		},
		{
			Name:        "Simple",
			Description: "Easy to type, good for mobile",
			Length:      12,
			Options: model.GeneratorOptions{
				Uppercase: true, Lowercase: true, Numbers: true,
				ExcludeSimilar: true, ExcludeAmbiguous: true,
			},
		},
	}
}

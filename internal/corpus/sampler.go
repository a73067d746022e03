package corpus

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/verte-zerg/codetype/internal/logger"
	"github.com/verte-zerg/codetype/internal/model"
)

// Sample is a word window drawn from one file.
type Sample struct {
	Words   []string
	File    string
	Skipped []Skipped
}

// Sampler draws practice words from project files.
type Sampler struct {
	rnd      *rand.Rand
	log      logger.Logger
	readFile func(string) ([]byte, error)
}

// NewSampler returns a Sampler using rnd, or a clock-seeded source when rnd
// is nil.
func NewSampler(rnd *rand.Rand, log logger.Logger) *Sampler {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Sampler{rnd: rnd, log: log.Named("corpus"), readFile: os.ReadFile}
}

// Sample picks files without replacement until one has at least cfg.Words
// words within its first maxChars characters, then returns a random window
// of exactly cfg.Words words from it. maxChars <= 0 disables truncation.
func (s *Sampler) Sample(ctx context.Context, cfg model.Config, maxChars int) (Sample, error) {
	if cfg.ProjectPath == "" {
		return Sample{}, ErrPathMissing
	}
	if cfg.Words < 1 {
		return Sample{}, ErrZeroWordCount
	}

	listing := FindSourceFiles(cfg.ProjectPath, cfg.FileExtension)
	for _, sk := range listing.Skipped {
		s.log.Debug(ctx, "skipped path", logger.String("path", sk.Path), logger.Error(sk.Err))
	}
	result := Sample{Skipped: listing.Skipped}
	if len(listing.Files) == 0 {
		return result, fmt.Errorf("%w: no .%s files under %s", ErrNoFilesFound, strings.TrimPrefix(cfg.FileExtension, "."), cfg.ProjectPath)
	}

	candidates := append([]string(nil), listing.Files...)
	for len(candidates) > 0 {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		idx := s.rnd.Intn(len(candidates))
		path := candidates[idx]
		candidates[idx] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]

		data, err := s.readFile(path)
		if err != nil {
			s.log.Warn(ctx, "failed to read candidate", logger.String("path", path), logger.Error(err))
			result.Skipped = append(result.Skipped, Skipped{Path: path, Err: err})
			continue
		}
		words := Tokenize(truncate(strings.TrimSpace(string(data)), maxChars))
		if len(words) < cfg.Words {
			s.log.Debug(ctx, "not enough words", logger.String("path", path), logger.Int("words", len(words)))
			continue
		}

		result.Words = ChooseWords(s.rnd, words, cfg.Words)
		result.File = path
		s.log.Debug(ctx, "sampled words", logger.String("path", path), logger.Int("available", len(words)))
		return result, nil
	}
	return result, fmt.Errorf("%w: need %d words from %d files", ErrInsufficientWords, cfg.Words, len(listing.Files))
}

// truncate keeps at most maxChars runes of content.
func truncate(content string, maxChars int) string {
	if maxChars <= 0 {
		return content
	}
	n := 0
	for i := range content {
		if n == maxChars {
			return content[:i]
		}
		n++
	}
	return content
}

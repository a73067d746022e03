// Package corpus samples practice words from project source files.
package corpus

import (
	"errors"
	"io/fs"
	"math/rand"
	"path/filepath"
	"strings"
)

var (
	// ErrNoFilesFound means no file under the project matches the extension.
	ErrNoFilesFound = errors.New("no code files found")
	// ErrInsufficientWords means no candidate file has enough words.
	ErrInsufficientWords = errors.New("not enough words to meet word count")
	// ErrZeroWordCount rejects a word count below one.
	ErrZeroWordCount = errors.New("word count can not be zero")
	// ErrPathMissing rejects an empty project path.
	ErrPathMissing = errors.New("project path is missing")
)

// Skipped is a path that was left out of sampling and why.
type Skipped struct {
	Path string
	Err  error
}

// Listing is the result of a directory walk.
type Listing struct {
	Files   []string
	Skipped []Skipped
}

// FindSourceFiles lists regular files under root with the given extension.
// A leading dot in ext is ignored. Entries that can not be read are recorded
// in Skipped and the walk continues.
func FindSourceFiles(root, ext string) Listing {
	ext = strings.TrimPrefix(ext, ".")
	var listing Listing
	// The callback records every error itself and never fails the walk.
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			listing.Skipped = append(listing.Skipped, Skipped{Path: path, Err: err})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if fileExt, ok := extension(d.Name()); ok && fileExt == ext {
			listing.Files = append(listing.Files, path)
		}
		return nil
	})
	return listing
}

// extension returns the text after the last dot of a file name. Names
// without a dot, and dotfiles without a second dot, have none.
func extension(name string) (string, bool) {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return "", false
	}
	return name[i+1:], true
}

// Tokenize splits content into whitespace separated words, dropping
// everything from "//" to the end of each line.
func Tokenize(content string) []string {
	var words []string
	for _, line := range strings.Split(content, "\n") {
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}
		words = append(words, strings.Fields(line)...)
	}
	return words
}

// ChooseWords returns a uniformly chosen run of count consecutive words.
// The caller guarantees 1 <= count <= len(words).
func ChooseWords(rnd *rand.Rand, words []string, count int) []string {
	start := rnd.Intn(len(words) - count + 1)
	chosen := make([]string, count)
	copy(chosen, words[start:start+count])
	return chosen
}

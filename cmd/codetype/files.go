package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/corpus"
)

type fileEntry struct {
	rel    string
	tokens int
}

func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files [query]",
		Short: "List the files rounds are sampled from",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runFilesCmd,
	}
}

func runFilesCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "path", &practicePath, fileCfg.Practice.Path)
	applyStringConfig(cmd, "ext", &practiceExt, fileCfg.Practice.Ext)
	if practicePath == "" {
		return fmt.Errorf("--path must not be empty")
	}
	ext := strings.TrimPrefix(strings.TrimSpace(practiceExt), ".")
	if ext == "" {
		return fmt.Errorf("--ext must not be empty")
	}

	listing := corpus.FindSourceFiles(practicePath, ext)
	entries, skipped := countTokens(practicePath, listing.Files)
	reportSkipped(cmd.ErrOrStderr(), append(listing.Skipped, skipped...))
	if len(args) == 1 {
		entries = rankEntries(entries, args[0])
	}
	return writeEntries(cmd.OutOrStdout(), entries)
}

func countTokens(root string, files []string) ([]fileEntry, []corpus.Skipped) {
	entries := make([]fileEntry, 0, len(files))
	var skipped []corpus.Skipped
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, corpus.Skipped{Path: path, Err: err})
			continue
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		entries = append(entries, fileEntry{rel: rel, tokens: len(corpus.Tokenize(string(content)))})
	}
	return entries, skipped
}

// rankEntries keeps the entries whose path fuzzily matches query, best match
// first.
func rankEntries(entries []fileEntry, query string) []fileEntry {
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.rel
	}
	matches := fuzzy.Find(query, paths)
	ranked := make([]fileEntry, 0, len(matches))
	for _, match := range matches {
		ranked = append(ranked, entries[match.Index])
	}
	return ranked
}

func writeEntries(w io.Writer, entries []fileEntry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%6d  %s\n", e.tokens, e.rel); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

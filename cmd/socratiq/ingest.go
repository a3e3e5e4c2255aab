package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sweetpotato0/socratiq/rag/corpus"
)

var (
	ingestAgent       string
	ingestCollection  string
	ingestAttribution string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Upload documents into an agent's collection",
	Long: `ingest walks the given files and directories and stores every regular file
under the corpus prefix of the collection, keyed by its path relative to the
argument. --attribution uploads the collection's attribution metadata.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		collection := ingestCollection
		if collection == "" && ingestAgent != "" {
			if err := cfg.RequireCollections(ingestAgent); err != nil {
				return err
			}
			collection = cfg.Agents.For(ingestAgent).Collection
		}
		if collection == "" {
			return fmt.Errorf("one of --agent or --collection is required")
		}

		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := ingest(cmd.Context(), a.store, collection, cfg.Corpus.Prefix, args)
		if err != nil {
			return err
		}
		if ingestAttribution != "" {
			data, err := os.ReadFile(ingestAttribution)
			if err != nil {
				return err
			}
			if err := a.store.Put(cmd.Context(), collection, corpus.AttributionKey, data); err != nil {
				return fmt.Errorf("store attribution: %w", err)
			}
		}
		a.logger.Info("ingest complete", "collection", collection, "documents", n)
		fmt.Fprintf(cmd.OutOrStdout(), "ingested %d documents into %s\n", n, collection)
		return nil
	},
}

// ingest stores every regular file below roots and returns how many were
// written. Hidden files and directories are skipped.
func ingest(ctx context.Context, w corpus.Writer, collection, prefix string, roots []string) (int, error) {
	count := 0
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return count, err
		}
		base := root
		if !info.IsDir() {
			base = filepath.Dir(root)
		}
		err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != root && strings.HasPrefix(d.Name(), ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(base, p)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			key := path.Join(prefix, filepath.ToSlash(rel))
			if err := w.Put(ctx, collection, key, data); err != nil {
				return fmt.Errorf("store %s: %w", key, err)
			}
			count++
			return nil
		})
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func init() {
	ingestCmd.Flags().StringVar(&ingestAgent, "agent", "", "agent whose configured collection receives the documents")
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "collection name, overriding --agent")
	ingestCmd.Flags().StringVar(&ingestAttribution, "attribution", "", "JSON file stored as the collection's attribution metadata")
	rootCmd.AddCommand(ingestCmd)
}

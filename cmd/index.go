package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdfqa/internal/config"
	"pdfqa/internal/helper"
	"pdfqa/internal/parser"
)

var (
	indexFile      string
	indexDocument  string
	indexStartPage int
	indexEndPage   int
	indexDryRun    bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Chunk a document and build its embedding index",
	Long: `The index command reads a document, splits it into page-tagged chunks and
embeds them. With --dry-run the chunks are printed and nothing is embedded.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexFile, "file", "f", "", "path to the document file")
	indexCmd.Flags().StringVarP(&indexDocument, "document", "d", "", "catalog document id")
	indexCmd.Flags().IntVar(&indexStartPage, "start-page", 0, "first page to read, counted from 1")
	indexCmd.Flags().IntVar(&indexEndPage, "end-page", 0, "last page to read, 0 for the last page of the document")
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "print chunks without embedding them")
	indexCmd.MarkFlagsMutuallyExclusive("file", "document")
	indexCmd.MarkFlagsOneRequired("file", "document")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path, startPage, endPage, err := resolveSource(indexFile, indexDocument, indexStartPage, indexEndPage)
	if err != nil {
		return err
	}

	if indexDryRun {
		pages, err := parser.LoadPages(path, startPage, endPage)
		if err != nil {
			return err
		}
		chunks := parser.ChunkPages(pages, cfg.RAG.ChunkWords, startPage)
		log.Info().Int("pages", len(pages)).Int("chunks", len(chunks)).Msg("Parsed document")
		helper.PrettyPrint(chunks)
		return nil
	}

	svc, closeSvc, err := newService(true)
	if err != nil {
		return err
	}
	defer closeSvc()

	sess, err := svc.NewSession()
	if err != nil {
		return err
	}
	if err := sess.Load(cmd.Context(), path, startPage, endPage); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d chunks from %s\n", len(sess.Chunks()), path)
	return nil
}

// resolveSource turns --file or --document into a path and page range. Zero
// pages fall back to the catalog entry, then to the rag config.
func resolveSource(file, document string, startPage, endPage int) (string, int, int, error) {
	path := file
	if path == "" {
		catalog, err := cfg.Catalog()
		if err != nil {
			return "", 0, 0, err
		}
		doc, err := catalog.Lookup(config.DocumentID(document))
		if err != nil {
			return "", 0, 0, err
		}
		path = doc.Path
		if startPage <= 0 {
			startPage = doc.StartPage
		}
		if endPage <= 0 {
			endPage = doc.EndPage
		}
	}
	if startPage <= 0 {
		startPage = cfg.RAG.StartPage
	}
	if endPage <= 0 {
		endPage = cfg.RAG.EndPage
	}
	return path, startPage, endPage, nil
}

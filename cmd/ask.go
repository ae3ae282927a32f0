package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdfqa/internal/config"
	"pdfqa/internal/models"
	"pdfqa/internal/rag"
)

var (
	askFile      string
	askDocument  string
	askStartPage int
	askQuestion  string
	askAPIKey    string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask questions about a document",
	Long: `The ask command loads a document and answers a question from it. Without
--question it reads questions from stdin, one per line, until EOF or "exit".`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askFile, "file", "f", "", "path to the document file")
	askCmd.Flags().StringVarP(&askDocument, "document", "d", "", "catalog document id")
	askCmd.Flags().IntVar(&askStartPage, "start-page", 0, "first page to read, counted from 1")
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "OpenAI API key, defaults to OPENAI_API_KEY")
	askCmd.MarkFlagsMutuallyExclusive("file", "document")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, closeSvc, err := newService(true)
	if err != nil {
		return err
	}
	defer closeSvc()

	sess, err := svc.NewSession()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var status string
	if askFile != "" {
		status = sess.LoadCorpus(ctx, askFile, askStartPage)
	} else {
		status = sess.LoadDocument(ctx, config.DocumentID(askDocument))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), status)
	if strings.HasPrefix(status, models.ErrorMarker) {
		return fmt.Errorf("failed to load corpus")
	}
	log.Info().Str("source", sess.Source()).Str("document", string(sess.Document())).Int("chunks", len(sess.Chunks())).Msg("Corpus ready")

	out := cmd.OutOrStdout()
	if askQuestion != "" {
		answer(ctx, out, sess, askQuestion)
		return nil
	}
	return interactive(ctx, cmd.InOrStdin(), out, sess)
}

func interactive(ctx context.Context, in io.Reader, out io.Writer, sess *rag.Session) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "exit" || question == "quit" {
			return nil
		}
		answer(ctx, out, sess, question)
	}
}

func answer(ctx context.Context, out io.Writer, sess *rag.Session, question string) {
	res, err := sess.Ask(ctx, question, askAPIKey)
	if err != nil {
		log.Debug().Err(err).Msg("Error answering")
		fmt.Fprintf(out, "%s\n\n", rag.ErrorText(err))
		return
	}

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	for _, s := range res.Source {
		log.Debug().Msg(s)
	}
	log.Info().Int("chunks", len(res.Source)).Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Fprintf(out, "%s\n\n", res.Content)
}

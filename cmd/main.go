package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pdfqa/internal/chromemdb"
	"pdfqa/internal/config"
	"pdfqa/internal/db"
	"pdfqa/internal/embedding"
	"pdfqa/internal/llmservice"
	"pdfqa/internal/rag"
)

const configFilePath = "./configs/config.yaml"

var (
	configPath   string
	logLevel     string
	resetHistory bool
	cfg          *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pdfqa",
	Short: "Answer questions from a PDF document",
	Long: `pdfqa splits a document into page-tagged chunks, indexes their embeddings
and answers questions with a language model grounded in the closest chunks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(logLevel); err != nil {
			return err
		}
		_ = godotenv.Load()

		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		log.Debug().Str("path", configPath).Int("documents", len(cfg.Documents)).Msg("Loaded config")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", configFilePath, "path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&resetHistory, "reset-history", false, "delete the stored answer history before running")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
	return nil
}

// newService wires the embedder, generator and answer history from cfg.
// The returned close func releases the history store.
func newService(showProgress bool) (*rag.Service, func(), error) {
	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing embedder: %w", err)
	}
	generator := llmservice.NewGenerator(&cfg.InferenceLLM)

	history, closeHistory, err := newHistory()
	if err != nil {
		return nil, nil, err
	}

	var opts []chromemdb.Option
	if showProgress {
		opts = append(opts, chromemdb.WithBatchHook(progressHook()))
	}

	svc, err := rag.NewService(cfg, embedder, generator, history, opts...)
	if err != nil {
		closeHistory()
		return nil, nil, err
	}
	return svc, closeHistory, nil
}

type historyStore interface {
	rag.AnswerLog
	Reset(ctx context.Context) error
	Close() error
}

func newHistory() (rag.AnswerLog, func(), error) {
	store, err := openHistory()
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing answer history")
		}
	}

	if resetHistory {
		if err := store.Reset(rootCmd.Context()); err != nil {
			closeStore()
			return nil, nil, fmt.Errorf("error resetting answer history: %w", err)
		}
		log.Info().Msg("Answer history reset")
	}
	return store, closeStore, nil
}

func openHistory() (historyStore, error) {
	if !cfg.Database.Enabled {
		return db.NewMemoryStore(), nil
	}

	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	bunDB := db.NewDB(sqldb, cfg.Database.Debug)
	if err := db.InitDB(rootCmd.Context(), bunDB); err != nil {
		bunDB.Close()
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	return db.NewStore(bunDB), nil
}

// progressHook draws one progress bar per fit.
func progressHook() func(done, total int) {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "embedding chunks")
		}
		_ = bar.Set(done)
		if done >= total {
			_ = bar.Finish()
			bar = nil
		}
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/chronos/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the reconstruction service over HTTP:

  POST /api/reconstruct  {"text": "..."}
  POST /api/search       {"query": "...", "searchType": "main"}
  POST /api/pipeline     {"text": "..."}
  GET  /health
  GET  /metrics

The server shuts down gracefully on SIGINT or SIGTERM.

Example:
  chronos serve
  chronos serve --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	serveCmd.Flags().String("llm-provider", "", "model provider (gemini, openai, anthropic, ollama)")
	serveCmd.Flags().String("llm-model", "", "model name")
	serveCmd.Flags().String("search-backend", "", "search backend (duckduckgo, searxng, file)")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("llm.provider", serveCmd.Flags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", serveCmd.Flags().Lookup("llm-model"))
	_ = viper.BindPFlag("search.backend", serveCmd.Flags().Lookup("search-backend"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := appConfig
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(server.Deps{
		Reconstructor: a.requester,
		Sources:       a.aggregator,
		Pipeline:      a.pipeline,
	},
		server.WithLogger(logger.Named("http")),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)
	httpServer := srv.NewHTTPServer(cfg.Server)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", httpServer.Addr),
			zap.String("llm_provider", cfg.LLM.Provider),
			zap.String("llm_model", cfg.LLM.Model),
			zap.String("search_backend", cfg.Search.Backend),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

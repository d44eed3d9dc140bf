package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/vocab-cli/internal/extractor"
	"github.com/sells-group/vocab-cli/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for extraction and feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEngine()
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           buildRouter(env, allowedOrigins()),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildRouter assembles the HTTP API around a constructed engine.
func buildRouter(env *engineEnv, origins []string) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/extract", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Text              string `json:"text"`
			DocumentCountHint int    `json:"document_count_hint"`
			SortByRarity      bool   `json:"sort_by_rarity"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if body.Text == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
			return
		}

		contextID := uuid.New().String()
		entries, err := env.Extractor.Extract(req.Context(), body.Text, extractor.Options{
			ContextID:         contextID,
			DocumentCountHint: body.DocumentCountHint,
			SortByRarity:      body.SortByRarity,
		})
		if err != nil {
			zap.L().Error("serve: extraction failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "extraction failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"context_id": contextID,
			"entries":    entries,
		})
	})

	r.Post("/feedback", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			ContextID string                `json:"context_id"`
			Entry     model.VocabularyEntry `json:"entry"`
			Label     int                   `json:"label"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		label := model.FeedbackLabel(body.Label)
		if !label.Valid() || body.Entry.Term == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "entry.term and label in {-1,0,1} are required"})
			return
		}
		if err := env.Extractor.Rate(req.Context(), body.ContextID, body.Entry, label); err != nil {
			zap.L().Error("serve: rating failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "rating failed"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
	})

	r.Post("/train", func(w http.ResponseWriter, req *http.Request) {
		// Training is a blocking batch scan; keep it off the request path.
		go func() {
			if _, err := env.Extractor.Train(context.WithoutCancel(req.Context())); err != nil {
				zap.L().Warn("serve: training failed", zap.Error(err))
			}
		}()
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "training started"})
	})

	r.Get("/corpus/status", func(w http.ResponseWriter, _ *http.Request) {
		status := map[string]any{"indexed": false}
		if env.Indexer != nil {
			if idx := env.Indexer.Cached(); idx != nil {
				status = map[string]any{
					"indexed":    true,
					"documents":  idx.DocCount,
					"vocabulary": idx.VocabSize,
					"built_at":   idx.BuiltAt,
				}
			}
		}
		writeJSON(w, http.StatusOK, status)
	})

	return r
}

func allowedOrigins() []string {
	if len(cfg.Server.AllowedOrigins) > 0 {
		return cfg.Server.AllowedOrigins
	}
	return []string{"*"}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

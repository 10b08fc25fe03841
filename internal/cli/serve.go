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

	"cuisine-classifier/internal/api"
	"cuisine-classifier/internal/core/cache"
	"cuisine-classifier/internal/core/cuisine"
	"cuisine-classifier/internal/core/model"
	"cuisine-classifier/internal/core/prediction"
	"cuisine-classifier/internal/core/queue"
	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Train on the labeled recipes and serve predictions over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// 設定檔變更時只熱更新日誌級別，其餘設定需重啟
			if root.ConfigPath != "" {
				stopWatch, err := config.Watch(root.ConfigPath, func(next *config.Config) {
					common.SetLevel(next.LogLevel)
				})
				if err != nil {
					common.LogWarn("Config watch disabled", zap.Error(err))
				} else {
					defer stopWatch()
				}
			}

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}

// buildService 訓練管線並組裝快取與隊列
func buildService(cfg *config.Config) (*prediction.Service, func(), error) {
	start := time.Now()
	train, err := cuisine.LoadRecipes(cfg.Data.TrainPath)
	if err != nil {
		return nil, nil, err
	}

	var extra []common.Recipe
	if cfg.Data.UseTestVocabulary && cfg.Data.TestPath != "" {
		if _, statErr := os.Stat(cfg.Data.TestPath); statErr == nil {
			if extra, err = cuisine.LoadRecipes(cfg.Data.TestPath); err != nil {
				return nil, nil, err
			}
		}
	}

	pipeline := model.New(model.OptionsFromConfig(cfg.Model))
	err = pipeline.FitRecipes(train, extra)
	common.LogStage("Fitting", start, err)
	if err != nil {
		return nil, nil, err
	}

	store, err := cache.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	q := queue.NewManager(cfg.Queue)
	svc := prediction.NewService(pipeline, store, q)
	q.Start(svc.Handle)

	cleanup := func() {
		q.Close()
		if store != nil {
			if err := store.Close(); err != nil {
				common.LogWarn("Failed to close cache", zap.Error(err))
			}
		}
	}
	return svc, cleanup, nil
}

// runServe 啟動 HTTP 服務，ctx 結束時優雅關閉
func runServe(ctx context.Context, cfg *config.Config) error {
	svc, cleanup, err := buildService(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	router, err := api.SetupRouter(cfg, svc)
	if err != nil {
		return fmt.Errorf("failed to setup router: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	common.LogInfo("Server exited")
	return nil
}

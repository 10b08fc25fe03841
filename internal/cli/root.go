// Package cli 命令列入口：批次預測、API 服務與遠端查詢
package cli

import (
	"fmt"

	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// 建置時以 ldflags 注入
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// rootOptions 全域旗標
type rootOptions struct {
	ConfigPath string
	LogLevel   string

	// 由 PersistentPreRunE 載入
	cfg *config.Config
}

// NewRootCommand 建立根命令並掛載子命令
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:     "classifier",
		Short:   "Predict recipe cuisines from their ingredient lists",
		Version: fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (yaml, json or toml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPredictCmd(opts),
		newServeCmd(opts),
		newQueryCmd(opts),
	)

	return cmd
}

// load 載入設定並初始化日誌
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(o.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.LogLevel
	}

	if err := common.InitLogger(cfg.LogLevel, cfg.Log.Dir); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	common.LogDebug("載入設定",
		zap.String("command", cmd.Name()),
		zap.String("config", o.ConfigPath),
		zap.String("log_level", cfg.LogLevel),
	)

	o.cfg = cfg
	return nil
}

// Execute 執行根命令
func Execute() error {
	defer common.Sync()
	return NewRootCommand().Execute()
}

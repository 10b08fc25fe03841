package cli

import (
	"fmt"
	"time"

	"cuisine-classifier/internal/core/cuisine"
	"cuisine-classifier/internal/core/model"
	"cuisine-classifier/internal/core/submission"
	"cuisine-classifier/internal/infrastructure/config"
	"cuisine-classifier/internal/pkg/common"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newPredictCmd(root *rootOptions) *cobra.Command {
	var (
		trainPath string
		testPath  string
		outputDir string
		noTestVoc bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Train on the labeled recipes and write a submission for the test recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			flags := cmd.Flags()
			if flags.Changed("train") {
				cfg.Data.TrainPath = trainPath
			}
			if flags.Changed("test") {
				cfg.Data.TestPath = testPath
			}
			if flags.Changed("output-dir") {
				cfg.Data.OutputDir = outputDir
			}
			if noTestVoc {
				cfg.Data.UseTestVocabulary = false
			}

			path, err := runPredict(cfg, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&trainPath, "train", "", "labeled recipes JSON (default from config)")
	f.StringVar(&testPath, "test", "", "unlabeled recipes JSON (default from config)")
	f.StringVarP(&outputDir, "output-dir", "o", "", "directory for the submission file")
	f.BoolVar(&noTestVoc, "no-test-vocab", false, "fit features on the training recipes only")

	return cmd
}

// runPredict 載入資料、訓練、預測並寫出提交檔，回傳檔案路徑
func runPredict(cfg *config.Config, now time.Time) (string, error) {
	total := time.Now()

	start := time.Now()
	common.LogInfo("Loading train and test data",
		zap.String("train", cfg.Data.TrainPath),
		zap.String("test", cfg.Data.TestPath),
	)
	train, err := cuisine.LoadRecipes(cfg.Data.TrainPath)
	if err != nil {
		common.LogStage("Loading", start, err)
		return "", err
	}
	test, err := cuisine.LoadRecipes(cfg.Data.TestPath)
	if err != nil {
		common.LogStage("Loading", start, err)
		return "", err
	}
	common.LogStage("Loading", start, nil)

	start = time.Now()
	common.LogInfo("Fitting model",
		zap.Int("train", len(train)),
		zap.Bool("use_test_vocabulary", cfg.Data.UseTestVocabulary),
	)
	pipeline := model.New(model.OptionsFromConfig(cfg.Model))
	var extra []common.Recipe
	if cfg.Data.UseTestVocabulary {
		extra = test
	}
	err = pipeline.FitRecipes(train, extra)
	common.LogStage("Fitting", start, err)
	if err != nil {
		return "", err
	}

	start = time.Now()
	common.LogInfo("Predicting", zap.Int("test", len(test)))
	preds, err := pipeline.PredictRecipes(test)
	common.LogStage("Predicting", start, err)
	if err != nil {
		return "", err
	}

	start = time.Now()
	common.LogInfo("Saving", zap.String("dir", cfg.Data.OutputDir))
	path, err := submission.Save(cfg.Data.OutputDir, now, cfg.Data.TimestampLayout, preds)
	common.LogStage("Saving", start, err)
	if err != nil {
		return "", err
	}

	common.LogInfo("All done",
		zap.String("path", path),
		zap.Int("predictions", len(preds)),
		zap.Duration("耗時", time.Since(total)),
	)
	return path, nil
}

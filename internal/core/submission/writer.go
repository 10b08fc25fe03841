// Package submission 以 id,cuisine 格式輸出預測結果
package submission

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"cuisine-classifier/internal/pkg/common"
)

// DefaultTimestampLayout 對應 %y%m%d_%H%M%S
const DefaultTimestampLayout = "060102_150405"

var header = []string{"id", "cuisine"}

// Write 寫出標頭與每筆預測，順序與輸入一致，不含索引欄
func Write(w io.Writer, preds []common.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range preds {
		if err := cw.Write([]string{strconv.Itoa(p.ID), p.Cuisine}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FileName 產生 <timestamp>_submission.csv
func FileName(now time.Time, layout string) string {
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return now.Format(layout) + "_submission.csv"
}

// Save 在 dir 下建立帶時間戳的提交檔並回傳路徑
func Save(dir string, now time.Time, layout string, preds []common.Prediction) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(dir, FileName(now, layout))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, preds); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

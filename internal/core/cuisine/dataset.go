package cuisine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"cuisine-classifier/internal/pkg/common"

	"go.uber.org/zap"
)

// DecodeRecipes 解析食譜 JSON 陣列，格式錯誤或缺少 ingredients 時回傳 MalformedInputError
func DecodeRecipes(r io.Reader) ([]common.Recipe, error) {
	var recipes []common.Recipe
	if err := common.DecodeJSON(r, &recipes); err != nil {
		return nil, &common.MalformedInputError{Index: -1, Err: err}
	}
	if err := ValidateRecipes(recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// ValidateRecipes 檢查每筆食譜都有 ingredients 欄位
func ValidateRecipes(recipes []common.Recipe) error {
	for i, r := range recipes {
		if r.Ingredients == nil {
			return &common.MalformedInputError{
				Index: i,
				Err:   errors.New("missing ingredients field"),
			}
		}
	}
	return nil
}

// LoadRecipes 讀取並解析食譜檔案
func LoadRecipes(path string) ([]common.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	recipes, err := DecodeRecipes(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	common.LogDebug("Recipes loaded",
		zap.String("path", path),
		zap.Int("count", len(recipes)),
	)
	return recipes, nil
}

package cuisine

import (
	"cuisine-classifier/internal/pkg/common"
)

// ExtractIngredients 將每筆食譜的食材清理並轉小寫，保持原始順序
func ExtractIngredients(records []common.Recipe) [][]string {
	out := make([][]string, len(records))
	for i, r := range records {
		tokens := make([]string, len(r.Ingredients))
		for j, ingredient := range r.Ingredients {
			tokens[j] = CleanLower(ingredient)
		}
		out[i] = tokens
	}
	return out
}

// ExtractLabels 依輸入順序回傳 cuisine 標籤，任一筆缺少標籤即回傳 MissingLabelError
func ExtractLabels(records []common.Recipe) ([]string, error) {
	labels := make([]string, len(records))
	for i, r := range records {
		label, ok := r.Label()
		if !ok {
			return nil, &common.MissingLabelError{Index: i, ID: r.ID}
		}
		labels[i] = label
	}
	return labels, nil
}

// ExtractIDs 依輸入順序回傳食譜 id
func ExtractIDs(records []common.Recipe) []int {
	ids := make([]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}

package common

// Recipe 食譜記錄；Cuisine 為 nil 表示資料中沒有 cuisine 欄位（待預測資料）
type Recipe struct {
	ID          int      `json:"id"`
	Cuisine     *string  `json:"cuisine,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// Label 回傳 cuisine 標籤以及是否存在
func (r Recipe) Label() (string, bool) {
	if r.Cuisine == nil {
		return "", false
	}
	return *r.Cuisine, true
}

// NewLabeledRecipe 建立帶標籤的食譜
func NewLabeledRecipe(id int, cuisine string, ingredients ...string) Recipe {
	return Recipe{ID: id, Cuisine: &cuisine, Ingredients: ingredients}
}

// NewRecipe 建立不帶標籤的食譜
func NewRecipe(id int, ingredients ...string) Recipe {
	return Recipe{ID: id, Ingredients: ingredients}
}

// Prediction 單筆預測結果，順序與輸入一致
type Prediction struct {
	ID      int    `json:"id"`
	Cuisine string `json:"cuisine"`
}

// PredictRequest 預測 API 請求
type PredictRequest struct {
	Recipes []Recipe `json:"recipes"`
}

// PredictResponse 預測 API 響應
type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
	RequestID   string       `json:"request_id,omitempty"`
}

// CleanRequest 食材清理 API 請求
type CleanRequest struct {
	Ingredients []string `json:"ingredients"`
}

// CleanResponse 食材清理 API 響應
type CleanResponse struct {
	Ingredients []string `json:"ingredients"`
}

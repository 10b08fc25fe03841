package model

import "fmt"

// FeatureUnion 依序串接多個向量化器的輸出
type FeatureUnion struct {
	parts []*TfidfVectorizer
}

// NewFeatureUnion 建立特徵聯集
func NewFeatureUnion(parts ...*TfidfVectorizer) *FeatureUnion {
	return &FeatureUnion{parts: parts}
}

// Fit 逐一擬合各向量化器
func (u *FeatureUnion) Fit(docs [][]string) error {
	for _, part := range u.parts {
		if err := part.Fit(docs); err != nil {
			return fmt.Errorf("fit %s features: %w", part.Name(), err)
		}
	}
	return nil
}

// Transform 轉換並串接，欄位順序與建構時的向量化器順序一致
func (u *FeatureUnion) Transform(docs [][]string) []SparseVector {
	out := make([]SparseVector, len(docs))
	offset := 0
	for _, part := range u.parts {
		vecs := part.Transform(docs)
		for i := range out {
			out[i] = Concat(out[i], vecs[i], offset)
		}
		offset += part.Size()
	}
	return out
}

// Size 總特徵維度
func (u *FeatureUnion) Size() int {
	total := 0
	for _, part := range u.parts {
		total += part.Size()
	}
	return total
}

// Sizes 各特徵組維度
func (u *FeatureUnion) Sizes() map[string]int {
	sizes := make(map[string]int, len(u.parts))
	for _, part := range u.parts {
		sizes[part.Name()] = part.Size()
	}
	return sizes
}

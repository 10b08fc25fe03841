package model

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary 訓練文件中沒有任何特徵詞
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain no features")

// TfidfVectorizer 詞頻乘上平滑 IDF，並對每列做 L2 正規化
type TfidfVectorizer struct {
	name       string
	analyze    Analyzer
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// NewTfidfVectorizer 建立向量化器
func NewTfidfVectorizer(name string, analyze Analyzer) *TfidfVectorizer {
	return &TfidfVectorizer{
		name:    name,
		analyze: analyze,
	}
}

// Name 特徵組名稱
func (v *TfidfVectorizer) Name() string {
	return v.name
}

// Fit 建立詞彙表（字典序）並計算 idf = ln((1+n)/(1+df)) + 1
func (v *TfidfVectorizer) Fit(docs [][]string) error {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, term := range v.analyze(doc) {
			if _, ok := seen[term]; ok {
				continue
			}
			seen[term] = struct{}{}
			df[term]++
		}
	}
	if len(df) == 0 {
		return ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	v.vocabulary = vocabulary
	v.terms = terms
	v.idf = idf
	return nil
}

// Transform 將文件轉為 TF-IDF 稀疏向量，詞彙表外的詞忽略
func (v *TfidfVectorizer) Transform(docs [][]string) []SparseVector {
	out := make([]SparseVector, len(docs))
	for i, doc := range docs {
		out[i] = v.transformOne(doc)
	}
	return out
}

func (v *TfidfVectorizer) transformOne(doc []string) SparseVector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(doc) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]*v.idf[idx])
	}
	vec.normalize()
	return vec
}

// Size 詞彙表大小
func (v *TfidfVectorizer) Size() int {
	return len(v.terms)
}

// Terms 依欄位順序的詞彙表
func (v *TfidfVectorizer) Terms() []string {
	return v.terms
}

// IDF 指定詞的 idf，不在詞彙表中回傳 false
func (v *TfidfVectorizer) IDF(term string) (float64, bool) {
	idx, ok := v.vocabulary[term]
	if !ok {
		return 0, false
	}
	return v.idf[idx], true
}

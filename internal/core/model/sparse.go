package model

import "math"

// SparseVector 稀疏向量，Indices 遞增排列
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len 非零項數量
func (v SparseVector) Len() int {
	return len(v.Indices)
}

// Dot 與稠密權重向量做內積
func (v SparseVector) Dot(w []float64) float64 {
	var sum float64
	for k, idx := range v.Indices {
		sum += w[idx] * v.Values[k]
	}
	return sum
}

// SquaredNorm 平方 L2 範數
func (v SparseVector) SquaredNorm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return sum
}

// normalize 原地做 L2 正規化，零向量不變
func (v SparseVector) normalize() {
	n := math.Sqrt(v.SquaredNorm())
	if n == 0 {
		return
	}
	for k := range v.Values {
		v.Values[k] /= n
	}
}

// addScaled w += scale * v
func (v SparseVector) addScaled(w []float64, scale float64) {
	for k, idx := range v.Indices {
		w[idx] += scale * v.Values[k]
	}
}

// Concat 串接兩個向量，b 的索引平移 offset
func Concat(a, b SparseVector, offset int) SparseVector {
	out := SparseVector{
		Indices: make([]int, 0, a.Len()+b.Len()),
		Values:  make([]float64, 0, a.Len()+b.Len()),
	}
	out.Indices = append(out.Indices, a.Indices...)
	out.Values = append(out.Values, a.Values...)
	for k, idx := range b.Indices {
		out.Indices = append(out.Indices, idx+offset)
		out.Values = append(out.Values, b.Values[k])
	}
	return out
}

package model

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer 將一筆食譜的 token 列表轉為特徵詞
type Analyzer func(tokens []string) []string

// 兩個以上文字字元組成一個詞
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// stripAccents NFKD 分解後移除組合記號。Transformer 有狀態，每次呼叫重新建立。
func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// IngredientAnalyzer 每個食材整體當作一個詞，不再切分
func IngredientAnalyzer(strip bool) Analyzer {
	return func(tokens []string) []string {
		if !strip {
			return tokens
		}
		out := make([]string, len(tokens))
		for i, tok := range tokens {
			out[i] = stripAccents(tok)
		}
		return out
	}
}

// WordNgramAnalyzer 以空白串接食材後切詞，產生 minN..maxN 的連續詞組，不移除停用詞
func WordNgramAnalyzer(minN, maxN int, strip bool) Analyzer {
	return func(tokens []string) []string {
		doc := strings.Join(tokens, " ")
		if strip {
			doc = stripAccents(doc)
		}
		words := wordPattern.FindAllString(doc, -1)
		return ngrams(words, minN, maxN)
	}
}

// ngrams 產生 n = minN..maxN 的連續詞組
func ngrams(words []string, minN, maxN int) []string {
	if maxN == 1 && minN == 1 {
		return words
	}

	var out []string
	if minN == 1 {
		out = append(out, words...)
		minN = 2
	}
	for n := minN; n <= maxN; n++ {
		for i := 0; i+n <= len(words); i++ {
			out = append(out, strings.Join(words[i:i+n], " "))
		}
	}
	return out
}

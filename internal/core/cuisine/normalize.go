// Package cuisine 食材字串清理、特徵/標籤擷取與食譜資料載入
package cuisine

import (
	"regexp"
	"strings"
)

// 清理規則依序套用，後面的規則假設前面已執行
var (
	// 撇號、亂碼彎撇號、含 oz 的括號片段（貪婪）以及剩餘括號，直接刪除
	removePattern = regexp.MustCompile(`'|â€™|\(.*oz.*\)|\(|\)`)
	// & 改寫為 and
	andPattern = regexp.MustCompile(`&`)
	// 非文字、數字、底線、空白、% 的字元換成空白
	otherPattern = regexp.MustCompile(`[^\p{L}\p{N}_%\s\v\p{Z}\x{85}]`)
)

// Clean 清理單一食材字串，結果只含文字字元、數字、%、_ 與單一空白。
// 不做小寫轉換，由 ExtractIngredients 處理。
func Clean(raw string) string {
	s := removePattern.ReplaceAllLiteralString(raw, "")
	s = andPattern.ReplaceAllLiteralString(s, "and")
	s = otherPattern.ReplaceAllLiteralString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// CleanLower 清理並轉小寫
func CleanLower(raw string) string {
	return strings.ToLower(Clean(raw))
}

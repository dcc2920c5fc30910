package constant

import (
	"net/url"
	"strings"
)

// 站内页面路径，这些路径本身不是短链
const (
	URLsPage              = "/urls"
	InvalidLinkPage       = "/invalid-link"
	DeprecatedPage        = "/deprecated"
	AccessDeniedPage      = "/access-denied"
	PasswordProtectedPage = "/password-protected"
)

// 页面查询参数
const (
	DeprecatedPathParam = "dpl"
	ProtectedPathParam  = "path"
)

var reservedPaths = map[string]struct{}{
	"":                   {},
	"urls":               {},
	"invalid-link":       {},
	"deprecated":         {},
	"access-denied":      {},
	"password-protected": {},
	"health":             {},
	"api":                {},
	"favicon.ico":        {},
}

// IsReservedPath 按第一段判断（不带前导 '/'），api/links 同样是保留路径
func IsReservedPath(shortPath string) bool {
	first, _, _ := strings.Cut(shortPath, "/")
	_, ok := reservedPaths[first]
	return ok
}

// DeprecatedPageURL /deprecated?dpl=<short_path>
func DeprecatedPageURL(shortPath string) string {
	return DeprecatedPage + "?" + url.Values{DeprecatedPathParam: {shortPath}}.Encode()
}

// PasswordPageURL /password-protected?path=<short_path>
func PasswordPageURL(shortPath string) string {
	return PasswordProtectedPage + "?" + url.Values{ProtectedPathParam: {shortPath}}.Encode()
}

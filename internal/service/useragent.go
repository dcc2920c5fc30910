package service

import "strings"

const unknownLabel = "Unknown"

type uaRule struct {
	match func(ua string) bool
	label string
}

func containsAny(subs ...string) func(string) bool {
	return func(ua string) bool {
		for _, s := range subs {
			if strings.Contains(ua, s) {
				return true
			}
		}
		return false
	}
}

// 顺序有意义，先匹配者胜出：
// Edge/Opera/Samsung 的 UA 都带 Chrome，Chrome 的 UA 带 Safari
var browserRules = []uaRule{
	{containsAny("bot", "Bot", "spider", "Spider", "curl/", "Wget/"), "Bot"},
	{containsAny("Edg/", "Edge/", "EdgA/", "EdgiOS/"), "Edge"},
	{containsAny("OPR/", "Opera"), "Opera"},
	{containsAny("SamsungBrowser/"), "Samsung Internet"},
	{containsAny("Firefox/", "FxiOS/"), "Firefox"},
	{containsAny("Chrome/", "CriOS/", "Chromium/"), "Chrome"},
	{containsAny("Safari/"), "Safari"},
	{containsAny("MSIE ", "Trident/"), "Internet Explorer"},
}

// iOS 的 UA 带 Mac OS X，Android 的 UA 带 Linux
var osRules = []uaRule{
	{containsAny("Windows"), "Windows"},
	{containsAny("iPhone", "iPad", "iPod"), "iOS"},
	{containsAny("Android"), "Android"},
	{containsAny("CrOS"), "ChromeOS"},
	{containsAny("Macintosh", "Mac OS X"), "macOS"},
	{containsAny("Linux"), "Linux"},
}

func firstMatch(rules []uaRule, ua string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.label
		}
	}
	return unknownLabel
}

// ClassifyUserAgent 返回浏览器与操作系统标签
func ClassifyUserAgent(ua string) (browser, os string) {
	if ua == "" {
		return unknownLabel, unknownLabel
	}
	return firstMatch(browserRules, ua), firstMatch(osRules, ua)
}

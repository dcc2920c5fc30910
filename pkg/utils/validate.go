package utils

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// 错误文本即 i18n 消息 ID
var (
	ErrShortPathInvalid = errors.New("ShortPathInvalid")
	ErrTargetURLInvalid = errors.New("TargetURLInvalid")
)

const (
	maxShortPathLength = 128
	maxTargetURLLength = 2048
)

var shortPathPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+(/[a-zA-Z0-9_-]+)*$`)

// ValidateShortPath 允许多段路径，如 team/docs
func ValidateShortPath(shortPath string) error {
	if shortPath == "" || len(shortPath) > maxShortPathLength || ContainsWhitespace(shortPath) {
		return ErrShortPathInvalid
	}
	if !shortPathPattern.MatchString(shortPath) {
		return ErrShortPathInvalid
	}
	return nil
}

// ValidateTargetURL 只接受 http/https 绝对地址
func ValidateTargetURL(targetURL string) error {
	if targetURL == "" || len(targetURL) > maxTargetURLLength {
		return ErrTargetURLInvalid
	}
	u, err := url.ParseRequestURI(targetURL)
	if err != nil {
		return ErrTargetURLInvalid
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return ErrTargetURLInvalid
	}
	return nil
}

func ContainsWhitespace(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

package dto

// VerifyPasswordRequest 密码页提交
type VerifyPasswordRequest struct {
	ShortPath string `json:"short_path" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

type VerifyPasswordResponse struct {
	Success     bool   `json:"success"`
	RedirectURL string `json:"redirect_url"`
}

// PasswordPageResponse 不包含目标地址
type PasswordPageResponse struct {
	ShortPath     string  `json:"short_path"`
	CustomMessage *string `json:"custom_message"`
}

type DeprecatedPageResponse struct {
	ShortPath string `json:"short_path,omitempty"`
	Message   string `json:"message"`
}

// PublicLink /urls 列表项
type PublicLink struct {
	ShortPath   string `json:"short_path"`
	RedirectURL string `json:"redirect_url"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Cache  string `json:"cache"`
}

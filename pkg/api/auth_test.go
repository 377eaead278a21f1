package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"katydid-common-scoring/pkg/types"
)

func TestAdminToken_HourWindow(t *testing.T) {
	base := time.Date(2017, 7, 19, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, AdminToken(base), AdminToken(base.Add(59*time.Minute)),
		"同一小时窗口内令牌一致")
	assert.NotEqual(t, AdminToken(base), AdminToken(base.Add(time.Hour)),
		"跨小时窗口令牌必须变化")
}

func TestUserToken_Deterministic(t *testing.T) {
	first := UserToken("horns&hoofs", "h&f")
	second := UserToken("horns&hoofs", "h&f")
	assert.Equal(t, first, second)
	assert.Len(t, first, 128, "SHA-512 的十六进制摘要长度")

	assert.NotEqual(t, first, UserToken("horns&hoofs", "other"),
		"不同登录名产生不同令牌")
}

func TestCheckAuth(t *testing.T) {
	tests := []struct {
		name    string
		account string
		login   string
		token   string
		want    bool
	}{
		{"合法用户令牌", "horns&hoofs", "h&f", UserToken("horns&hoofs", "h&f"), true},
		{"错误用户令牌", "horns&hoofs", "h&f", "sdd", false},
		{"空令牌", "horns&hoofs", "h&f", "", false},
		{"合法管理员令牌", "", AdminLogin, AdminToken(time.Now()), true},
		{"管理员用了用户算法的令牌", "", AdminLogin, UserToken("", AdminLogin), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := types.Extras{
				"account":   tt.account,
				"login":     tt.login,
				"token":     tt.token,
				"method":    "online_score",
				"arguments": map[string]any{},
			}
			r := NewMethodRequest(raw, nil)
			// 字段验证通过后认证失败会短路为 FORBIDDEN，
			// 认证通过则继续走方法验证（参数为空 → INVALID_REQUEST）
			_, code := r.ValidateRequest()
			if tt.want {
				assert.NotEqual(t, CodeForbidden, code, "期望认证通过")
			} else {
				assert.Equal(t, CodeForbidden, code, "期望认证被拒绝")
			}
		})
	}
}

package api

import (
	"crypto/sha512"
	"encoding/hex"
	"time"
)

// 认证参数
// 方案的安全性完全依赖盐值的保密性，与哈希算法的选择无关
const (
	Salt       = "Otus"
	AdminLogin = "admin"
	AdminSalt  = "42"

	// adminTokenLayout 管理员令牌的时间窗口格式：按小时截断
	adminTokenLayout = "2006010215" // YYYYMMDDHH
)

// AdminToken 计算管理员令牌：对（当前小时时间戳 + 管理员盐）做 SHA-512
// 令牌只在所在小时窗口内有效，跨小时即失效
func AdminToken(now time.Time) string {
	return digest(now.Format(adminTokenLayout) + AdminSalt)
}

// UserToken 计算普通用户令牌：对（account + login + 盐）做 SHA-512
func UserToken(account, login string) string {
	return digest(account + login + Salt)
}

// CheckAuth 校验信封携带的令牌
// 只在信封字段验证全部通过后调用
func CheckAuth(r *MethodRequest) bool {
	var expected string
	if r.IsAdmin() {
		expected = AdminToken(time.Now())
	} else {
		expected = UserToken(r.Account(), r.Login())
	}
	return expected == r.Token()
}

// digest UTF-8 编码拼接串的 SHA-512 十六进制摘要
func digest(payload string) string {
	sum := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(sum[:])
}

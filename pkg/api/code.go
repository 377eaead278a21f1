package api

// Code 请求处理结果状态码，与 HTTP 状态码同值
type Code int

// 预定义的状态码
const (
	CodeOK             Code = 200 // 处理成功
	CodeBadRequest     Code = 400 // 请求体不可解析
	CodeForbidden      Code = 403 // 认证失败
	CodeNotFound       Code = 404 // 路径未注册
	CodeInvalidRequest Code = 422 // 字段验证失败
	CodeInternalError  Code = 500 // 内部错误
)

// codeTexts 状态码的默认错误文案
var codeTexts = map[Code]string{
	CodeBadRequest:     "Bad Request",
	CodeForbidden:      "Forbidden",
	CodeNotFound:       "Not Found",
	CodeInvalidRequest: "Invalid Request",
	CodeInternalError:  "Internal Server Error",
}

// Text 返回状态码的默认文案，未知状态码返回 Unknown Error
func (c Code) Text() string {
	if text, ok := codeTexts[c]; ok {
		return text
	}
	if c == CodeOK {
		return "OK"
	}
	return "Unknown Error"
}

// IsError 是否为错误状态
func (c Code) IsError() bool {
	return c != CodeOK
}

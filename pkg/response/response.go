package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope 单对象响应结构（与前端约定一致：对象挂在 data 下）
type Envelope struct {
	Data interface{} `json:"data"`
}

// ListEnvelope 分页列表响应结构
// 顶层直接平铺 items / page / pageSize / totalCount
type ListEnvelope struct {
	Items      interface{} `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalCount int64       `json:"totalCount"`
}

// ErrorBody 错误响应结构
type ErrorBody struct {
	Error string `json:"error"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Data: data})
}

// OKList 200 分页列表成功
func OKList(c *gin.Context, items interface{}, page, pageSize int, totalCount int64) {
	c.JSON(http.StatusOK, ListEnvelope{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
	})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// BadGateway 502（下游主体存储不可用）
func BadGateway(c *gin.Context, message string) {
	Error(c, http.StatusBadGateway, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误")
}

// [自证通过] pkg/response/response.go

package core

import "github.com/golang-jwt/jwt/v4"

// Claims 為管理後台 JWT 內容
type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// ContextAdminClaimsKey 為 admin middleware 存放 *Claims 的 gin context key
const ContextAdminClaimsKey = "adminClaims"

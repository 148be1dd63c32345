package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// Manager JWT校验器
// 设计说明：
// 1. Token由平台用户服务统一签发，本服务只做校验（共享HS256密钥）
// 2. Claims携带门店ID：连锁门店的店员只能看到本门店的库存告警
type Manager struct {
	secret string // JWT签名密钥（与用户服务共享）
	issuer string // 预期的签发方
}

// NewManager 创建JWT校验器
func NewManager(secret, issuer string) *Manager {
	return &Manager{
		secret: secret,
		issuer: issuer,
	}
}

// Claims 自定义JWT Claims
// 学习要点：
// 1. 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf等）
// 2. 添加自定义字段（UserID、StoreID、Role）
type Claims struct {
	UserID  uint   `json:"user_id"`
	StoreID uint   `json:"store_id"` // 所属门店（0表示总部，可见全部门店）
	Role    string `json:"role"`     // admin | manager | clerk
	jwt.RegisteredClaims
}

// ParseToken 解析并验证Token
// 校验项：
// 1. 签名（防止伪造）
// 2. 过期时间（exp）与生效时间（nbf）
// 3. 签发方（iss）
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})

	if err != nil {
		if err == jwt.ErrTokenExpired {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	// 签发方校验（用户服务签发的Token才被接受）
	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/lubrimax/lubestock/pkg/jwt"
)

// 集成测试辅助工具
// 测试目标是运行中的完整服务（本地启动，默认配置），
// 服务未启动时整组测试跳过而非失败

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// ServerAddr 可达性探测地址
	ServerAddr = "localhost:8080"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second

	// 与config/config.yaml的开发默认值一致
	testSecret = "change-me-in-production"
	testIssuer = "lubrimax-user"
)

// RequireServer 探测本地服务，不可达时跳过测试
func RequireServer(t *testing.T) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", ServerAddr, time.Second)
	if err != nil {
		t.Skipf("本地服务未启动(%s)，跳过集成测试: %v", ServerAddr, err)
	}
	conn.Close()
}

// Response 统一响应结构
type Response struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// AlertData 告警响应数据
type AlertData struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	CurrentStock int     `json:"current_stock"`
	MinStock     int     `json:"min_stock"`
	Urgency      string  `json:"urgency"`
	Trend        string  `json:"trend"`
	Status       string  `json:"status"`
	DeficitRatio float64 `json:"deficit_ratio"`
}

// AlertListData 告警列表响应数据
type AlertListData struct {
	List  []AlertData `json:"list"`
	Total int         `json:"total"`
}

// BadgeData 角标响应数据
type BadgeData struct {
	Count  int  `json:"count"`
	Unseen bool `json:"unseen"`
}

// RefreshData 刷新响应数据
type RefreshData struct {
	Created      int  `json:"created"`
	Updated      int  `json:"updated"`
	AutoResolved int  `json:"auto_resolved"`
	VisibleCount int  `json:"visible_count"`
	Stale        bool `json:"stale"`
}

// MintToken 用开发默认密钥签发测试Token
// 本服务只验证不签发，集成测试自己扮演账号服务
func MintToken(t *testing.T, userID uint, role string) string {
	t.Helper()

	claims := pkgjwt.Claims{
		UserID:  userID,
		StoreID: 1,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err, "签发测试Token失败")
	return signed
}

// PostJSON 发送POST请求并解析JSON响应
func PostJSON(t *testing.T, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest("POST", url, body)
	require.NoError(t, err, "创建HTTP请求失败")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doRequest(t, req)
}

// GetJSON 发送GET请求并解析JSON响应
func GetJSON(t *testing.T, url string, token string) *Response {
	t.Helper()

	req, err := http.NewRequest("GET", url, nil)
	require.NoError(t, err, "创建HTTP请求失败")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doRequest(t, req)
}

func doRequest(t *testing.T, req *http.Request) *Response {
	t.Helper()

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(body, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(body))

	return &result
}

// AlertURL 拼接告警接口URL
func AlertURL(path string) string {
	return fmt.Sprintf("%s/alerts%s", BaseURL, path)
}

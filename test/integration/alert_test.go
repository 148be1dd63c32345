package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 告警模块集成测试
//
// 覆盖的关键链路：
// 1. JWT认证与角色控制
// 2. 刷新 → 列表 → 角标的一致性
// 3. 告警状态流转（查看/处理）
//
// 前置条件：本地服务已启动（MySQL/Redis可用），否则整组跳过

// TestAlertAuth 测试认证与权限
func TestAlertAuth(t *testing.T) {
	RequireServer(t)

	t.Run("未登录不能访问", func(t *testing.T) {
		resp := GetJSON(t, AlertURL(""), "")
		assert.NotEqual(t, 0, resp.Code, "未登录应被拒绝")
	})

	t.Run("登录后可以访问", func(t *testing.T) {
		token := MintToken(t, 1, "clerk")
		resp := GetJSON(t, AlertURL(""), token)
		assert.Equal(t, 0, resp.Code, "登录后应能查询告警列表: %s", resp.Message)
	})

	t.Run("店员不能标记已处理", func(t *testing.T) {
		token := MintToken(t, 2, "clerk")
		resp := PostJSON(t, AlertURL("/1/resolved"), nil, token)
		assert.Equal(t, 40300, resp.Code, "clerk角色应被权限中间件拦截")
	})
}

// TestAlertRefreshAndList 测试刷新与列表/角标一致性
func TestAlertRefreshAndList(t *testing.T) {
	RequireServer(t)
	token := MintToken(t, 1, "manager")

	// 触发一轮刷新
	refreshResp := PostJSON(t, AlertURL("/refresh"), nil, token)
	require.Equal(t, 0, refreshResp.Code, "刷新失败: %s", refreshResp.Message)

	var refresh RefreshData
	require.NoError(t, json.Unmarshal(refreshResp.Data, &refresh))
	assert.False(t, refresh.Stale, "数据源正常时不应返回降级响应")

	// 列表与角标应一致
	listResp := GetJSON(t, AlertURL(""), token)
	require.Equal(t, 0, listResp.Code)

	var list AlertListData
	require.NoError(t, json.Unmarshal(listResp.Data, &list))
	assert.Equal(t, refresh.VisibleCount, list.Total, "刷新报告的可见数应与列表一致")

	badgeResp := GetJSON(t, AlertURL("/badge"), token)
	require.Equal(t, 0, badgeResp.Code)

	var badge BadgeData
	require.NoError(t, json.Unmarshal(badgeResp.Data, &badge))
	assert.Equal(t, list.Total, badge.Count, "角标数应与可见告警数一致")
	assert.False(t, badge.Unseen, "打开过告警面板后未读标记应已清除")

	// 清除红点:只清未读标志,计数不变
	clearResp := PostJSON(t, AlertURL("/badge/clear"), nil, token)
	require.Equal(t, 0, clearResp.Code)

	var cleared BadgeData
	require.NoError(t, json.Unmarshal(clearResp.Data, &cleared))
	assert.Equal(t, badge.Count, cleared.Count, "清除红点不应改变可见告警数")
	assert.False(t, cleared.Unseen)

	// 列表按严重度排序
	for i := 1; i < len(list.List); i++ {
		prev, cur := urgencyRank(list.List[i-1].Urgency), urgencyRank(list.List[i].Urgency)
		assert.GreaterOrEqual(t, prev, cur, "告警列表应按紧急度降序排列")
	}

	t.Logf("✓ 刷新完成: 可见告警%d条", list.Total)
}

// TestAlertStatusFlow 测试告警状态流转
func TestAlertStatusFlow(t *testing.T) {
	RequireServer(t)
	token := MintToken(t, 1, "manager")

	// 刷新后取一条可见告警
	PostJSON(t, AlertURL("/refresh"), nil, token)
	listResp := GetJSON(t, AlertURL(""), token)
	require.Equal(t, 0, listResp.Code)

	var list AlertListData
	require.NoError(t, json.Unmarshal(listResp.Data, &list))
	if len(list.List) == 0 {
		t.Skip("当前库存没有产生任何告警，跳过状态流转测试")
	}

	alertID := list.List[0].ID

	t.Run("标记已查看", func(t *testing.T) {
		resp := PostJSON(t, AlertURL(fmt.Sprintf("/%d/viewed", alertID)), nil, token)
		assert.Equal(t, 0, resp.Code, "标记已查看失败: %s", resp.Message)

		detail := GetJSON(t, AlertURL(fmt.Sprintf("/%d", alertID)), token)
		require.Equal(t, 0, detail.Code)

		var a AlertData
		require.NoError(t, json.Unmarshal(detail.Data, &a))
		assert.Equal(t, "viewed", a.Status)
	})

	t.Run("标记已处理后从列表消失", func(t *testing.T) {
		before := visibleCount(t, token)

		resp := PostJSON(t, AlertURL(fmt.Sprintf("/%d/resolved", alertID)), nil, token)
		assert.Equal(t, 0, resp.Code, "标记已处理失败: %s", resp.Message)

		after := visibleCount(t, token)
		assert.Equal(t, before-1, after, "处理后可见告警数应减一")
	})

	t.Run("不存在的告警返回明确错误", func(t *testing.T) {
		resp := PostJSON(t, AlertURL("/99999999/viewed"), nil, token)
		assert.Equal(t, 40402, resp.Code, "不存在的告警应返回告警不存在错误码")
	})
}

// visibleCount 当前可见告警数
func visibleCount(t *testing.T, token string) int {
	t.Helper()
	resp := GetJSON(t, AlertURL(""), token)
	require.Equal(t, 0, resp.Code)

	var list AlertListData
	require.NoError(t, json.Unmarshal(resp.Data, &list))
	return list.Total
}

// urgencyRank 紧急度排序权重
func urgencyRank(u string) int {
	switch u {
	case "critical":
		return 4
	case "high":
		return 3
	case "medium":
		return 2
	case "low":
		return 1
	}
	return 0
}

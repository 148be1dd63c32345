package alert

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainalert "github.com/lubrimax/lubestock/internal/domain/alert"
	"github.com/lubrimax/lubestock/internal/domain/product"
	apperrors "github.com/lubrimax/lubestock/pkg/errors"
)

// fakeMirror 可注入失败的告警状态镜像
type fakeMirror struct {
	viewedCalls   int
	resolvedCalls int
	err           error
}

func (f *fakeMirror) PersistViewed(ctx context.Context, alertID uint) error {
	f.viewedCalls++
	return f.err
}

func (f *fakeMirror) PersistResolved(ctx context.Context, alertID uint) error {
	f.resolvedCalls++
	return f.err
}

// storeWithAlert 准备一个有一条在档告警的Store
func storeWithAlert(t *testing.T, id uint) *domainalert.Store {
	t.Helper()
	store := domainalert.NewStore()
	p := &product.Product{ID: id, Name: "测试机油", CurrentStock: 2, MinStock: 10, MaxStock: 100}
	candidates, _ := domainalert.Evaluate([]*product.Product{p}, nil)
	store.Reconcile(candidates, map[uint]int{id: 2}, time.Now())
	return store
}

// TestMarkResolved_LocalOnly 镜像未配置时纯本地运行
func TestMarkResolved_LocalOnly(t *testing.T) {
	store := storeWithAlert(t, 1)
	uc := NewMarkResolvedUseCase(store, nil, nil, nil, time.Second)

	err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, store.VisibleCount(), "本地变更立即生效")
}

// TestMarkResolved_MirrorSuccess 镜像成功时本地与远端都落定
func TestMarkResolved_MirrorSuccess(t *testing.T) {
	store := storeWithAlert(t, 1)
	mirror := &fakeMirror{}
	uc := NewMarkResolvedUseCase(store, mirror, nil, nil, time.Second)

	err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, mirror.resolvedCalls)
	assert.Zero(t, store.VisibleCount())
}

// TestMarkResolved_MirrorRejectionRollsBack 镜像拒绝时回滚本地变更
func TestMarkResolved_MirrorRejectionRollsBack(t *testing.T) {
	store := storeWithAlert(t, 1)
	mirror := &fakeMirror{err: errors.New("duplicate entry")}
	uc := NewMarkResolvedUseCase(store, mirror, nil, nil, time.Second)

	err := uc.Execute(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeMirrorRejected, apperrors.GetAppError(err).Code)
	assert.True(t, apperrors.IsRecoverable(err))

	// 补偿已执行:告警回到可见集
	assert.Equal(t, 1, store.VisibleCount(), "镜像拒绝后本地变更必须回滚")
	a, getErr := store.Get(1)
	require.NoError(t, getErr)
	assert.Equal(t, domainalert.StatusNew, a.Status)
}

// TestMarkResolved_UnknownAlert 不存在的告警返回明确错误且不触碰镜像
func TestMarkResolved_UnknownAlert(t *testing.T) {
	store := domainalert.NewStore()
	mirror := &fakeMirror{}
	uc := NewMarkResolvedUseCase(store, mirror, nil, nil, time.Second)

	err := uc.Execute(context.Background(), 999)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeAlertNotFound, apperrors.GetAppError(err).Code)
	assert.Zero(t, mirror.resolvedCalls, "本地第一步失败不应触发镜像")
}

// TestMarkViewed_MirrorRejectionRollsBack 已查看的回滚路径
func TestMarkViewed_MirrorRejectionRollsBack(t *testing.T) {
	store := storeWithAlert(t, 1)
	mirror := &fakeMirror{err: errors.New("timeout")}
	uc := NewMarkViewedUseCase(store, mirror, time.Second)

	err := uc.Execute(context.Background(), 1)
	require.Error(t, err)

	a, getErr := store.Get(1)
	require.NoError(t, getErr)
	assert.Equal(t, domainalert.StatusNew, a.Status, "回滚后恢复为new")
}

// TestMarkViewed_LocalOnly 镜像未配置时标记已查看
func TestMarkViewed_LocalOnly(t *testing.T) {
	store := storeWithAlert(t, 1)
	uc := NewMarkViewedUseCase(store, nil, time.Second)

	err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)

	a, getErr := store.Get(1)
	require.NoError(t, getErr)
	assert.Equal(t, domainalert.StatusViewed, a.Status)
	assert.Equal(t, 1, store.VisibleCount(), "viewed仍然可见")
}

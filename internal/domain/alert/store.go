package alert

import (
	"sort"
	"sync"
	"time"
)

// Store 告警生命周期存储（进程内唯一权威）
//
// 设计说明:
//  1. 进程内单实例，持有全量在档告警及其生命周期状态；外部持久化
//     只是尽力而为的镜像（local-first），本地状态永远是展示依据
//  2. 每次刷新用评估器输出与在档告警对账（Reconcile）：
//     - 新出现的候选 → 以new状态入档，置未读标记
//     - 候选消失（库存恢复）→ 自动resolved并移出档案（重新武装）
//     - 候选仍在 → 原地更新紧急度/趋势/库存，生命周期状态保持不变
//  3. 防复活：手动resolved的告警在缺货持续期间留在档案中（不可见），
//     对账绝不把它拉回new/viewed；只有库存先恢复、再次跌破阈值
//     才会产生一条全新的告警
//  4. 并发：读写锁保护；对账与状态变更都在锁内完成，保证已落定的
//     resolved不会被并发刷新悄悄覆盖
type Store struct {
	mu     sync.RWMutex
	alerts map[uint]*StockAlert // key = ProductID
	stocks map[uint]int         // 上一次评估的全量库存快照（趋势计算）
	unseen bool                 // 全局"有未读告警"标记
}

// NewStore 创建告警存储
func NewStore() *Store {
	return &Store{
		alerts: make(map[uint]*StockAlert),
		stocks: make(map[uint]int),
	}
}

// ReconcileResult 对账结果（供指标与事件发布使用）
type ReconcileResult struct {
	Created      []StockAlert // 本轮新建的告警（值拷贝）
	Updated      int          // 原地更新的在档告警数
	AutoResolved []uint       // 因库存恢复而自动处理的告警ID
}

// LastStocks 上一次评估的库存快照（拷贝）
// 刷新流程在调用评估器前读取，用于趋势计算
func (s *Store) LastStocks() map[uint]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[uint]int, len(s.stocks))
	for id, stock := range s.stocks {
		snapshot[id] = stock
	}
	return snapshot
}

// Reconcile 将评估器输出与在档告警对账
//
// 参数：
//   - candidates: 评估器产出的本轮候选
//   - stocks: 本轮全量库存快照（留作下轮趋势基线）
//   - evaluatedAt: 本轮评估时间
//
// 约定：刷新失败时根本不调用本方法，上一轮告警集保持权威
// （宁可偏旧，不可清零）
func (s *Store) Reconcile(candidates []Candidate, stocks map[uint]int, evaluatedAt time.Time) ReconcileResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result ReconcileResult
	seen := make(map[uint]bool, len(candidates))

	for _, c := range candidates {
		seen[c.ProductID] = true

		existing, ok := s.alerts[c.ProductID]
		if !ok {
			// 新跌破阈值：以new状态入档
			a := &StockAlert{
				ID:              c.ProductID,
				ProductID:       c.ProductID,
				ProductName:     c.ProductName,
				Category:        c.Category,
				Supplier:        c.Supplier,
				CurrentStock:    c.CurrentStock,
				MinStock:        c.MinStock,
				UnitPrice:       c.UnitPrice,
				Urgency:         c.Urgency,
				Trend:           c.Trend,
				Status:          StatusNew,
				FirstSeenAt:     evaluatedAt,
				LastEvaluatedAt: evaluatedAt,
			}
			s.alerts[c.ProductID] = a
			s.unseen = true
			result.Created = append(result.Created, *a)
			continue
		}

		// 在档告警（含resolved）：只刷新评估字段，状态原样保留
		// resolved的告警因此保持不可见——同一次缺货不会复活
		existing.applyCandidate(c, evaluatedAt)
		if existing.Status != StatusResolved {
			result.Updated++
		}
	}

	// 候选消失 = 库存已恢复到阈值之上：
	// 活跃告警自动处理，resolved告警解除武装，统一移出档案
	for id, a := range s.alerts {
		if seen[id] {
			continue
		}
		if a.Status != StatusResolved {
			result.AutoResolved = append(result.AutoResolved, id)
		}
		delete(s.alerts, id)
	}
	sort.Slice(result.AutoResolved, func(i, j int) bool {
		return result.AutoResolved[i] < result.AutoResolved[j]
	})

	// 留作下轮趋势基线
	s.stocks = make(map[uint]int, len(stocks))
	for id, stock := range stocks {
		s.stocks[id] = stock
	}

	return result
}

// Visible 当前可见告警（排除resolved，值拷贝）
// 排序与评估器一致：紧急度降序 → 缺口比例降序 → 库存升序 → ID升序
func (s *Store) Visible() []StockAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()

	visible := make([]StockAlert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.IsVisible() {
			visible = append(visible, *a)
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		a, b := visible[i], visible[j]
		if a.Urgency.Rank() != b.Urgency.Rank() {
			return a.Urgency.Rank() > b.Urgency.Rank()
		}
		if a.DeficitRatio() != b.DeficitRatio() {
			return a.DeficitRatio() > b.DeficitRatio()
		}
		if a.CurrentStock != b.CurrentStock {
			return a.CurrentStock < b.CurrentStock
		}
		return a.ID < b.ID
	})

	return visible
}

// VisibleCount 可见告警数（徽标数）
// 保证：恒等于 |{a : a.Status ≠ resolved}|
func (s *Store) VisibleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.alerts {
		if a.IsVisible() {
			count++
		}
	}
	return count
}

// Get 查询单条告警（值拷贝）
func (s *Store) Get(id uint) (StockAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.alerts[id]
	if !ok {
		return StockAlert{}, ErrAlertNotFound
	}
	return *a, nil
}

// MarkViewed 标记已查看（new → viewed，幂等）
// 返回变更前的状态，供远端镜像失败时回滚（RestoreStatus）
// 不存在的ID返回ErrAlertNotFound，状态无变化
func (s *Store) MarkViewed(id uint) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return "", ErrAlertNotFound
	}

	prev := a.Status
	a.markViewed()
	return prev, nil
}

// MarkResolved 标记已处理（任意非resolved状态 → resolved，幂等）
// 告警立即从可见集中消失（乐观更新，无需等待远端确认），
// 但在库存恢复前仍留档用于防复活
func (s *Store) MarkResolved(id uint) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.alerts[id]
	if !ok {
		return "", ErrAlertNotFound
	}

	prev := a.Status
	a.resolve()
	return prev, nil
}

// RestoreStatus 回滚到指定状态（远端镜像拒绝后的补偿操作）
// 告警已被并发刷新移出档案时直接返回：档案移除意味着库存已恢复，
// 回滚一个已消失的告警没有意义
func (s *Store) RestoreStatus(id uint, prev Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.alerts[id]; ok {
		a.Status = prev
	}
}

// UnseenFlag 全局未读标记
func (s *Store) UnseenFlag() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unseen
}

// ClearUnseen 清除未读标记（打开告警面板时调用）
// 只清全局标记，不改变任何单条告警的生命周期状态
func (s *Store) ClearUnseen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unseen = false
}

package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"go.uber.org/zap"
)

// 矩阵行键
const (
	RowDone          = "done"
	RowOnTime        = "on_time"
	RowLate          = "late"
	RowPending       = "pending"
	RowOverdue       = "overdue"
	RowNotApplicable = "not_applicable"
)

// MatrixRowOrder 固定行顺序
var MatrixRowOrder = []string{RowDone, RowOnTime, RowLate, RowPending, RowOverdue, RowNotApplicable}

// DrillItem 下钻明细，是报表的正式输出而非调试信息
type DrillItem struct {
	TenderID   string     `json:"tender_id"`
	TenderNo   string     `json:"tender_no"`
	TenderName string     `json:"tender_name"`
	Value      float64    `json:"value"`
	At         *time.Time `json:"at,omitempty"`
}

// MatrixCell 单元格：计数+下钻
type MatrixCell struct {
	Count int         `json:"count"`
	Items []DrillItem `json:"items"`
}

// StageMatrix 阶段×判定结果矩阵
type StageMatrix struct {
	Window Window                            `json:"window"`
	Stages []string                          `json:"stages"`
	Rows   map[string]map[string]*MatrixCell `json:"rows"` // 行键 → 阶段键 → 单元格
}

func newStageMatrix(w Window, stageKeys []string) *StageMatrix {
	m := &StageMatrix{Window: w, Stages: stageKeys, Rows: make(map[string]map[string]*MatrixCell)}
	for _, row := range MatrixRowOrder {
		m.Rows[row] = make(map[string]*MatrixCell)
		for _, key := range stageKeys {
			m.Rows[row][key] = &MatrixCell{Items: []DrillItem{}}
		}
	}
	return m
}

func (m *StageMatrix) add(row, stageKey string, item DrillItem) {
	cell := m.Rows[row][stageKey]
	if cell == nil {
		return
	}
	cell.Count++
	cell.Items = append(cell.Items, item)
}

// MatrixService 阶段矩阵服务
type MatrixService struct {
	repos  *repository.Repositories
	logger *zap.Logger

	// 可替换的时钟，静默超期判定用
	now func() time.Time
}

func NewMatrixService(repos *repository.Repositories, logger *zap.Logger) *MatrixService {
	return &MatrixService{repos: repos, logger: logger, now: time.Now}
}

// GetUserMatrix 个人口径矩阵
func (s *MatrixService) GetUserMatrix(ctx context.Context, userID string, window Window) (*StageMatrix, error) {
	leaderScope, err := s.isTeamLeader(ctx, userID)
	if err != nil {
		return nil, err
	}
	perfs, facts, err := s.evaluateScope(ctx, []scopeMember{{userID: userID, leader: leaderScope}}, window)
	if err != nil {
		return nil, err
	}
	return s.tabulate(window, perfs, facts, leaderScope), nil
}

// GetTeamMatrix 团队口径矩阵：逐成员独立判定后合并
// 每个标书只归属一个成员，无需去重
func (s *MatrixService) GetTeamMatrix(ctx context.Context, teamID string, window Window) (*StageMatrix, error) {
	members, err := s.repos.Directory.FindTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	// 团队不存在或无成员：给零值结果，报表不因缺上下文而报错
	if len(members) == 0 {
		return newStageMatrix(window, StageKeys()), nil
	}

	team, err := s.repos.Directory.FindTeamByID(ctx, teamID)
	if err != nil && err != repository.ErrNotFound {
		return nil, err
	}

	scope := make([]scopeMember, 0, len(members))
	for _, m := range members {
		leader := team != nil && team.LeaderID == m.ID
		scope = append(scope, scopeMember{userID: m.ID, leader: leader})
	}

	perfs, facts, err := s.evaluateScope(ctx, scope, window)
	if err != nil {
		return nil, err
	}
	return s.tabulate(window, perfs, facts, true), nil
}

type scopeMember struct {
	userID string
	leader bool
}

// evaluateScope 逐成员取数并判定；成员间互不影响，可并行，
// 合并前按(tender_id, stage_key)稳定排序保证结果可重复
func (s *MatrixService) evaluateScope(ctx context.Context, members []scopeMember, window Window) ([]StagePerformance, map[string]*TenderFacts, error) {
	now := s.now()

	type memberResult struct {
		perfs []StagePerformance
		facts map[string]*TenderFacts
		err   error
	}
	results := make([]memberResult, len(members))

	var wg sync.WaitGroup
	for i, m := range members {
		wg.Add(1)
		go func(idx int, m scopeMember) {
			defer wg.Done()
			snap, err := LoadSnapshot(ctx, s.repos, []string{m.userID})
			if err != nil {
				results[idx] = memberResult{err: err}
				return
			}
			var perfs []StagePerformance
			for _, f := range snap.Facts {
				if !window.Contains(f.Tender.CreatedAt) {
					continue
				}
				perfs = append(perfs, EvaluateTender(f, now, m.leader)...)
			}
			results[idx] = memberResult{perfs: perfs, facts: snap.Facts}
		}(i, m)
	}
	wg.Wait()

	var all []StagePerformance
	facts := make(map[string]*TenderFacts)
	for _, r := range results {
		if r.err != nil {
			return nil, nil, r.err
		}
		all = append(all, r.perfs...)
		for id, f := range r.facts {
			facts[id] = f
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].TenderID != all[j].TenderID {
			return all[i].TenderID < all[j].TenderID
		}
		return all[i].StageKey < all[j].StageKey
	})
	return all, facts, nil
}

// tabulate 归类计数
// 静默超期单列overdue行，与pending、done/late互斥
func (s *MatrixService) tabulate(window Window, perfs []StagePerformance, facts map[string]*TenderFacts, leaderScope bool) *StageMatrix {
	keys := StageKeys()
	if !leaderScope {
		keys = filterLeaderStages(keys)
	}
	m := newStageMatrix(window, keys)

	for _, p := range perfs {
		item := drillItemFor(facts[p.TenderID], p)

		switch {
		case !p.Applicable:
			m.add(RowNotApplicable, p.StageKey, item)
		case p.SilentOverdue:
			m.add(RowOverdue, p.StageKey, item)
		case !p.Completed:
			m.add(RowPending, p.StageKey, item)
		case p.OnTime != nil && *p.OnTime:
			m.add(RowDone, p.StageKey, item)
			m.add(RowOnTime, p.StageKey, item)
		case p.OnTime != nil && !*p.OnTime:
			m.add(RowDone, p.StageKey, item)
			m.add(RowLate, p.StageKey, item)
		default:
			// 完成但无截止日可比
			m.add(RowDone, p.StageKey, item)
		}
	}
	return m
}

func (s *MatrixService) isTeamLeader(ctx context.Context, userID string) (bool, error) {
	user, err := s.repos.Directory.FindUserByID(ctx, userID)
	if err != nil {
		if err == repository.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	if user.Role == entity.RoleTeamLeader {
		return true, nil
	}
	if user.TeamID == "" {
		return false, nil
	}
	team, err := s.repos.Directory.FindTeamByID(ctx, user.TeamID)
	if err != nil {
		if err == repository.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return team.LeaderID == userID, nil
}

func filterLeaderStages(keys []string) []string {
	leaderOnly := make(map[string]bool)
	for _, def := range stageRegistry {
		if def.LeaderOnly {
			leaderOnly[def.Key] = true
		}
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if !leaderOnly[k] {
			out = append(out, k)
		}
	}
	return out
}

func drillItemFor(f *TenderFacts, p StagePerformance) DrillItem {
	item := DrillItem{TenderID: p.TenderID, TenderNo: p.TenderNo}
	if f != nil {
		item.TenderName = f.Tender.Name
		if f.Tender.TenderValue != nil {
			item.Value = *f.Tender.TenderValue
		}
	}
	if p.EndTime != nil {
		item.At = p.EndTime
	} else if p.StartTime != nil {
		item.At = p.StartTime
	}
	return item
}

package service

import (
	"context"
	"math"

	"github.com/bitfantasy/tms/internal/tender/entity"
	"github.com/bitfantasy/tms/internal/tender/repository"
	"go.uber.org/zap"
)

// 评分权重：专员/负责人口径
const (
	weightCompletion = 0.4
	weightOnTime     = 0.4
	weightOutcome    = 0.2
)

// 评分权重：OEM口径
const (
	weightWinRate    = 0.6
	weightCompliance = 0.4
)

// ScoreCard 专员/团队负责人评分卡
type ScoreCard struct {
	CompletionRate int `json:"completion_rate"` // 完成率
	OnTimeRate     int `json:"on_time_rate"`    // 按时率
	OutcomeScore   int `json:"outcome_score"`   // 中标成效
	Total          int `json:"total"`

	// 支撑数字
	Applicable    int `json:"applicable"`
	Completed     int `json:"completed"`
	OnTime        int `json:"on_time"`
	Won           int `json:"won"`
	ResultAwaited int `json:"result_awaited"`
}

// OEMScoreCard 厂商协同评分卡
type OEMScoreCard struct {
	WinRateScore    int `json:"win_rate_score"`
	ComplianceScore int `json:"compliance_score"`
	Total           int `json:"total"`

	Won       int `json:"won"`
	Decided   int `json:"decided"`
	OnTime    int `json:"on_time"`
	Completed int `json:"completed"`
}

// ScoreService 绩效评分服务
type ScoreService struct {
	matrix *MatrixService
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewScoreService(matrix *MatrixService, repos *repository.Repositories, logger *zap.Logger) *ScoreService {
	return &ScoreService{matrix: matrix, repos: repos, logger: logger}
}

// GetUserScore 个人评分
func (s *ScoreService) GetUserScore(ctx context.Context, userID string, window Window) (*ScoreCard, error) {
	m, err := s.matrix.GetUserMatrix(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	snap, err := LoadSnapshot(ctx, s.repos, []string{userID})
	if err != nil {
		return nil, err
	}
	return buildScoreCard(m, snap, window), nil
}

// GetTeamScore 团队评分
func (s *ScoreService) GetTeamScore(ctx context.Context, teamID string, window Window) (*ScoreCard, error) {
	m, err := s.matrix.GetTeamMatrix(ctx, teamID, window)
	if err != nil {
		return nil, err
	}
	members, err := s.repos.Directory.FindTeamMembers(ctx, teamID)
	if err != nil {
		return nil, err
	}
	ownerIDs := make([]string, 0, len(members))
	for _, mem := range members {
		ownerIDs = append(ownerIDs, mem.ID)
	}
	snap, err := LoadSnapshot(ctx, s.repos, ownerIDs)
	if err != nil {
		return nil, err
	}
	return buildScoreCard(m, snap, window), nil
}

// GetOEMScore OEM口径评分：中标率六成，履约合规四成
func (s *ScoreService) GetOEMScore(ctx context.Context, userID string, window Window) (*OEMScoreCard, error) {
	m, err := s.matrix.GetUserMatrix(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	snap, err := LoadSnapshot(ctx, s.repos, []string{userID})
	if err != nil {
		return nil, err
	}

	card := &OEMScoreCard{}
	won, _, decided := outcomeCounts(snap, window)
	card.Won = won
	card.Decided = decided
	card.Completed, card.OnTime = matrixCompletionCounts(m)

	winRate := ratio(won, decided)
	compliance := ratio(card.OnTime, card.Completed)
	card.WinRateScore = clampScore(winRate)
	card.ComplianceScore = clampScore(compliance)
	card.Total = clampScore(int(math.Round(float64(card.WinRateScore)*weightWinRate + float64(card.ComplianceScore)*weightCompliance)))
	return card, nil
}

// buildScoreCard 专员/负责人评分：完成率40% + 按时率40% + 成效20%
func buildScoreCard(m *StageMatrix, snap *Snapshot, window Window) *ScoreCard {
	card := &ScoreCard{}
	card.Completed, card.OnTime = matrixCompletionCounts(m)
	card.Applicable = matrixApplicableCount(m)
	won, awaited, _ := outcomeCounts(snap, window)
	card.Won = won
	card.ResultAwaited = awaited

	card.CompletionRate = clampScore(ratio(card.Completed, card.Applicable))
	card.OnTimeRate = clampScore(ratio(card.OnTime, card.Completed))
	card.OutcomeScore = clampScore(ratio(won, awaited))

	total := float64(card.CompletionRate)*weightCompletion +
		float64(card.OnTimeRate)*weightOnTime +
		float64(card.OutcomeScore)*weightOutcome
	card.Total = clampScore(int(math.Round(total)))
	return card
}

// matrixCompletionCounts 从矩阵汇总完成与按时实例数
func matrixCompletionCounts(m *StageMatrix) (completed, onTime int) {
	for _, key := range m.Stages {
		if cell := m.Rows[RowDone][key]; cell != nil {
			completed += cell.Count
		}
		if cell := m.Rows[RowOnTime][key]; cell != nil {
			onTime += cell.Count
		}
	}
	return completed, onTime
}

// matrixApplicableCount 适用实例总数 = 全部实例 - 不适用
func matrixApplicableCount(m *StageMatrix) int {
	total := 0
	for _, row := range []string{RowDone, RowPending, RowOverdue} {
		for _, key := range m.Stages {
			if cell := m.Rows[row][key]; cell != nil {
				total += cell.Count
			}
		}
	}
	return total
}

// outcomeCounts 窗口内标书的结果口径计数
// won/awaited支撑成效分；decided = 已出结果(中标+落标+废标)
func outcomeCounts(snap *Snapshot, window Window) (won, awaited, decided int) {
	for i := range snap.Tenders {
		t := &snap.Tenders[i]
		if !window.Contains(t.CreatedAt) {
			continue
		}
		bucket := t.Bucket()
		switch bucket {
		case entity.BucketWon:
			won++
			decided++
		case entity.BucketLost, entity.BucketDisqualified:
			decided++
		}
		// 成效分母：进入过"待开标"序列的标书
		switch bucket {
		case entity.BucketBid, entity.BucketResultAwaited,
			entity.BucketWon, entity.BucketLost, entity.BucketDisqualified:
			awaited++
		}
	}
	return won, awaited, decided
}

// ratio 百分比，分母为0时归0，绝不产生NaN
func ratio(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}

// clampScore 分值一律压回[0,100]
func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"fixtrack/internal/authz"
	"fixtrack/internal/dto"
	"fixtrack/internal/entities"
	"fixtrack/internal/repositories"
	"fixtrack/pkg/config"
	"fixtrack/pkg/constants"
	apperrors "fixtrack/pkg/errors"
	"fixtrack/pkg/export"
)

const defaultCommonProblemsLimit = 10

// problemKeywords ключевые слова, по которым группируются описания проблем.
// Латинские термины мастера пишут без перевода.
var problemKeywords = []string{
	"не включается", "экран", "медленно", "вирус", "батарея", "ошибка",
	"синий", "чёрный", "wifi", "интернет", "audio", "звук", "клавиатура",
	"мышь", "зарядка", "память", "диск", "software", "hardware", "сеть",
}

// ExportResult готовый файл выгрузки.
type ExportResult struct {
	Content     []byte
	ContentType string
	FileName    string
}

type ReportServiceInterface interface {
	StatusDistribution(ctx context.Context, filter entities.OrderFilter) (*dto.StatusDistributionDTO, error)
	TechnicianPerformance(ctx context.Context, filter entities.OrderFilter) ([]dto.TechnicianPerformanceDTO, error)
	CommonProblems(ctx context.Context, filter entities.OrderFilter, limit int) (*dto.CommonProblemsDTO, error)
	ExportOrders(ctx context.Context, format string, filter entities.OrderFilter) (*ExportResult, error)
}

type ReportService struct {
	*BaseService
	reportRepo repositories.ReportRepositoryInterface
	cfg        config.ReportConfig
	now        func() time.Time
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cfg config.ReportConfig,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{
		BaseService: NewBaseService(cache, logger),
		reportRepo:  reportRepo,
		cfg:         cfg,
		now:         time.Now,
	}
}

// percent доля в процентах с одним знаком после запятой.
func percent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// cacheKey ключ отчёта. В него входит текущее поколение кеша, которое сбрасывается при изменении заявок.
func (s *ReportService) cacheKey(ctx context.Context, report string, params interface{}) string {
	generation := "0"
	if s.cache != nil {
		if g, err := s.cache.Get(ctx, constants.ReportCacheGenerationKey); err == nil {
			generation = g
		}
	}
	raw, _ := json.Marshal(params)
	return fmt.Sprintf("reports:%s:%s:%s", generation, report, raw)
}

func (s *ReportService) StatusDistribution(ctx context.Context, filter entities.OrderFilter) (*dto.StatusDistributionDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.ReportsStatus); err != nil {
		return nil, err
	}

	key := s.cacheKey(ctx, "status", filter)
	var cached dto.StatusDistributionDTO
	if s.CacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	counts, err := s.reportRepo.StatusDistribution(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}

	var total uint64
	for _, c := range counts {
		total += c.Count
	}
	result := &dto.StatusDistributionDTO{Total: total, Items: make([]dto.StatusDistributionItemDTO, 0, len(counts))}
	for _, c := range counts {
		result.Items = append(result.Items, dto.StatusDistributionItemDTO{
			Status:     c.Status,
			Label:      constants.OrderStatus(c.Status).Label(),
			Count:      c.Count,
			Percentage: percent(c.Count, total),
		})
	}

	s.CacheSet(ctx, key, result, s.cfg.CacheTTL)
	return result, nil
}

func (s *ReportService) TechnicianPerformance(ctx context.Context, filter entities.OrderFilter) ([]dto.TechnicianPerformanceDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.ReportsAdvanced); err != nil {
		return nil, err
	}

	key := s.cacheKey(ctx, "technicians", filter)
	var cached []dto.TechnicianPerformanceDTO
	if s.CacheGet(ctx, key, &cached) {
		return cached, nil
	}

	stats, err := s.reportRepo.TechnicianPerformance(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	result := make([]dto.TechnicianPerformanceDTO, 0, len(stats))
	for _, st := range stats {
		result = append(result, dto.TechnicianPerformanceDTO{
			TechnicianID:          st.TechnicianID,
			Username:              st.Username,
			Assigned:              st.Assigned,
			Completed:             st.Completed,
			CompletionRate:        percent(st.Completed, st.Assigned),
			AverageResolutionDays: round1(st.AvgResolutionSecs / (24 * time.Hour).Seconds()),
		})
	}

	s.CacheSet(ctx, key, result, s.cfg.CacheTTL)
	return result, nil
}

// CommonProblems частота ключевых слов в описаниях проблем; одно описание считается по каждому слову один раз.
func (s *ReportService) CommonProblems(ctx context.Context, filter entities.OrderFilter, limit int) (*dto.CommonProblemsDTO, error) {
	if _, err := s.CheckPermission(ctx, authz.ReportsAdvanced); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultCommonProblemsLimit
	}

	key := s.cacheKey(ctx, "problems", struct {
		Filter entities.OrderFilter
		Limit  int
	}{filter, limit})
	var cached dto.CommonProblemsDTO
	if s.CacheGet(ctx, key, &cached) {
		return &cached, nil
	}

	descriptions, err := s.reportRepo.ProblemDescriptions(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}
	result := countKeywords(descriptions, limit)

	s.CacheSet(ctx, key, result, s.cfg.CacheTTL)
	return result, nil
}

func countKeywords(descriptions []string, limit int) *dto.CommonProblemsDTO {
	counts := make(map[string]uint64)
	for _, d := range descriptions {
		d = strings.ToLower(d)
		for _, kw := range problemKeywords {
			if strings.Contains(d, kw) {
				counts[kw]++
			}
		}
	}

	total := uint64(len(descriptions))
	result := make([]dto.CommonProblemDTO, 0, len(counts))
	for kw, c := range counts {
		result = append(result, dto.CommonProblemDTO{Keyword: kw, Count: c, Percentage: percent(c, total)})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Keyword < result[j].Keyword
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return &dto.CommonProblemsDTO{Problems: result, TotalAnalyzed: total}
}

// ExportOrders формирует xlsx или pdf по фильтру. Выгрузка не кешируется и не ограничивается пагинацией.
func (s *ReportService) ExportOrders(ctx context.Context, format string, filter entities.OrderFilter) (*ExportResult, error) {
	session, err := s.CheckPermission(ctx, authz.ReportsExport)
	if err != nil {
		return nil, err
	}
	f, ok := export.ParseFormat(format)
	if !ok {
		return nil, apperrors.NewValidationError("Формат выгрузки должен быть excel или pdf")
	}

	filter.Limit, filter.Offset = 0, 0
	rows, err := s.reportRepo.ExportRows(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}

	now := s.now()
	var buf bytes.Buffer
	switch f {
	case export.FormatPDF:
		err = export.WriteOrdersPDF(&buf, rows, export.PDFOptions{FontPath: s.cfg.PDFFontPath, Now: now})
	default:
		err = export.WriteOrdersXLSX(&buf, rows)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err, nil)
	}

	s.logger.Info("Выгрузка заявок",
		zap.String("format", string(f)),
		zap.Int("rows", len(rows)),
		zap.Uint64("userID", session.AccountID),
	)
	return &ExportResult{Content: buf.Bytes(), ContentType: f.ContentType(), FileName: f.FileName(now)}, nil
}

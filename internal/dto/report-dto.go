package dto

type StatusDistributionItemDTO struct {
	Status     string  `json:"status"`
	Label      string  `json:"label"`
	Count      uint64  `json:"count"`
	Percentage float64 `json:"percentage"`
}

type StatusDistributionDTO struct {
	Total uint64                      `json:"total"`
	Items []StatusDistributionItemDTO `json:"items"`
}

type TechnicianPerformanceDTO struct {
	TechnicianID          uint64  `json:"technician_id"`
	Username              string  `json:"username"`
	Assigned              uint64  `json:"assigned"`
	Completed             uint64  `json:"completed"`
	CompletionRate        float64 `json:"completion_rate"`
	AverageResolutionDays float64 `json:"average_resolution_time"`
}

type CommonProblemDTO struct {
	Keyword    string  `json:"keyword"`
	Count      uint64  `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CommonProblemsDTO топ ключевых слов и число разобранных описаний, от которого считаются проценты.
type CommonProblemsDTO struct {
	Problems      []CommonProblemDTO `json:"problems"`
	TotalAnalyzed uint64             `json:"total_analyzed"`
}

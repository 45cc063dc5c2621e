package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그, 실행 결과에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3
//   Data  RFM  Scoring  Selection

// Stage represents a pipeline stage
type Stage string

const (
	// StageData S0: 입력 CSV 로드 및 준비
	// 책임: 필수 컬럼 검증, 합계 파생, 날짜 파싱
	// 위치: internal/s0_data/
	StageData Stage = "S0_DATA"

	// StageRFM S1: 고객별 Recency/Frequency/Monetary 계산
	// 위치: internal/s1_rfm/
	StageRFM Stage = "S1_RFM"

	// StageScoring S2: 5분위 점수, RF_SCORE, 세그먼트
	// 위치: internal/s2_scoring/
	StageScoring Stage = "S2_SCORING"

	// StageSelection S3: 캠페인 대상 추출 및 CSV 내보내기
	// 위치: internal/s3_selection/
	StageSelection Stage = "S3_SELECTION"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// ShortName returns abbreviated stage name (e.g., "S0", "S1")
func (s Stage) ShortName() string {
	switch s {
	case StageData:
		return "S0"
	case StageRFM:
		return "S1"
	case StageScoring:
		return "S2"
	case StageSelection:
		return "S3"
	default:
		return "UNKNOWN"
	}
}

// Description returns Korean description of the stage
func (s Stage) Description() string {
	switch s {
	case StageData:
		return "데이터 로드/준비"
	case StageRFM:
		return "RFM 지표 계산"
	case StageScoring:
		return "점수화/세그먼트"
	case StageSelection:
		return "캠페인 대상 추출"
	default:
		return "알 수 없음"
	}
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageData,
		StageRFM,
		StageScoring,
		StageSelection,
	}
}

// IsValidStage checks if a stage string is valid
func IsValidStage(s string) bool {
	for _, stage := range AllStages() {
		if string(stage) == s {
			return true
		}
	}
	return false
}

// StageResult represents the result of one stage execution
type StageResult struct {
	Stage       Stage  `json:"stage"`
	InputCount  int    `json:"input_count"`
	OutputCount int    `json:"output_count"`
	Duration    int64  `json:"duration_ms"`
	Error       string `json:"error,omitempty"`
}

// AngelaMos | 2026
// dto.go

package assessment

import (
	"encoding/json"
	"time"
)

type ValueLanternRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1,dive,keys,oneof=flame protection handle light,endkeys,max=2000"`
}

type ConcordanceRequest struct {
	Goal    string         `json:"goal"    validate:"omitempty,max=200"`
	Answers map[string]int `json:"answers" validate:"required,len=8,dive,keys,oneof=q1 q2 q3 q4 q5 q6 q7 q8,endkeys,min=1,max=7"`
}

type ValueLanternResult struct {
	Answers map[string]string `json:"answers"`
	Values  []string          `json:"values"`
}

type ConcordanceResult struct {
	Goal    string         `json:"goal,omitempty"`
	Answers map[string]int `json:"answers"`
	ConcordanceScore
}

type ResultResponse struct {
	ID        string          `json:"id"`
	Tool      string          `json:"tool"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

func ToResultResponse(r *ToolResult) ResultResponse {
	return ResultResponse{
		ID:        r.ID,
		Tool:      r.ToolName,
		Result:    json.RawMessage(r.Result),
		CreatedAt: r.CreatedAt,
	}
}

func ToResultResponseList(results []ToolResult) []ResultResponse {
	out := make([]ResultResponse, len(results))
	for i := range results {
		out[i] = ToResultResponse(&results[i])
	}
	return out
}

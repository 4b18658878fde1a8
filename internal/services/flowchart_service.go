package services

import (
	"context"
	"log/slog"

	"github.com/SmartEval-2025/assessment-platform/internal/flowchart"
	"github.com/SmartEval-2025/assessment-platform/internal/validator"
)

type flowchartService struct {
	logger    *slog.Logger
	validator *validator.Validator
}

func NewFlowchartService(logger *slog.Logger, v *validator.Validator) FlowchartService {
	return &flowchartService{
		logger:    logger,
		validator: v,
	}
}

// Generate returns a rule-based Mermaid diagram for the prompt. The
// same prompt always produces the same diagram.
func (s *flowchartService) Generate(ctx context.Context, req *validator.FlowchartRequest) (*FlowchartResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError("invalid flowchart request", err)
	}

	diagram := flowchart.Generate(req.Prompt)
	s.logger.Debug("Flowchart generated", "prompt_length", len(req.Prompt))

	return &FlowchartResponse{
		Diagram: diagram,
		Source:  "fallback",
	}, nil
}

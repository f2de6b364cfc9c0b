package converter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/slipstream-bet/converter/internal/pkg/agent"
	"github.com/slipstream-bet/converter/internal/pkg/bookmakers"
	"github.com/slipstream-bet/converter/internal/pkg/matching"
	"github.com/slipstream-bet/converter/internal/pkg/models"
	"github.com/slipstream-bet/converter/internal/pkg/pool"
)

// workerLoop pulls tasks until shutdown. Each iteration produces exactly
// one ConversionResult per dequeued task, whatever goes wrong, and does
// best-effort pool housekeeping before looping.
func (o *Orchestrator) workerLoop(workerID string) {
	slog.Info("Worker started", "worker", workerID)
	for {
		select {
		case <-o.ctx.Done():
			slog.Info("Worker stopped", "worker", workerID)
			return
		default:
		}

		task, ok := o.queue.GetTask(taskPollTimeout)
		if !ok {
			continue
		}

		slog.Info("Worker processing task", "worker", workerID, "task_id", task.TaskID)
		result := o.processTask(o.ctx, task)
		o.finishTask(task, result)
		slog.Info("Worker completed task", "worker", workerID,
			"task_id", task.TaskID, "success", result.Success, "partial", result.Partial)

		o.pool.CleanupIdle()
	}
}

// processTask runs one conversion end to end: acquire a session, extract
// the source selections, fetch destination candidates, match, create the
// destination slip. No internal retries; a retry is a new task.
func (o *Orchestrator) processTask(ctx context.Context, task models.ConversionTask) models.ConversionResult {
	start := time.Now()

	source, err := bookmakers.Get(task.SourceBookmaker)
	if err != nil {
		return timedFailure(task, start, err.Error(), err.Error())
	}
	dest, err := bookmakers.Get(task.DestinationBookmaker)
	if err != nil {
		return timedFailure(task, start, err.Error(), err.Error())
	}

	resource, err := o.pool.Acquire(ctx)
	if err != nil {
		if errors.Is(err, pool.ErrExhausted) {
			return timedFailure(task, start, err.Error(),
				"System is busy processing other requests - try again later")
		}
		return timedFailure(task, start, err.Error(), categorizeError(err))
	}
	defer o.pool.Release(resource)

	sourceBase := source.ResolveBaseURL(ctx, o.cfg.MirrorTimeout)
	destBase := dest.ResolveBaseURL(ctx, o.cfg.MirrorTimeout)

	// Step 1: extract the selections behind the source betslip code.
	raw, err := resource.Run(ctx, extractionTask(source, sourceBase, task.BetslipCode))
	if err != nil {
		return timedFailure(task, start, err.Error(), categorizeError(err))
	}
	payloads, err := agent.DecodeExtraction(raw)
	if err != nil {
		return timedFailure(task, start, err.Error(),
			"Could not find or extract betting selections from the provided betslip code")
	}

	var selections []models.Selection
	var warnings []string
	for _, p := range payloads {
		sel, err := p.ToSelection()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Skipped malformed selection: %v", err))
			continue
		}
		selections = append(selections, sel)
	}
	if len(selections) == 0 {
		return timedFailure(task, start, "no valid selections in betslip",
			append(warnings, "The betslip contained no usable selections")...)
	}

	// Step 2: list candidate games for those fixtures on the destination.
	raw, err = resource.Run(ctx, candidatesTask(dest, destBase, selections))
	if err != nil {
		return timedFailure(task, start, err.Error(), categorizeError(err))
	}
	games, err := agent.DecodeGames(raw)
	if err != nil {
		return timedFailure(task, start, err.Error(),
			"Could not read the destination bookmaker's available games")
	}

	// Step 3: match every selection against the candidates.
	engine := matching.NewEngine(source, dest, o.params)
	var accepted []models.Selection
	var outcomes []models.ConvertedSelection
	for _, sel := range selections {
		match := engine.MatchSelection(sel, games, -1)
		warnings = append(warnings, match.Warnings...)
		if !match.Success {
			outcomes = append(outcomes, models.ConvertedSelection{
				Game:         sel.GameName(),
				Market:       sel.Market,
				OriginalOdds: sel.Odds,
				Confidence:   match.Confidence,
				Status:       models.StatusSkipped,
				Reason:       strings.Join(match.Warnings, "; "),
			})
			continue
		}
		accepted = append(accepted, sel)
		outcomes = append(outcomes, models.ConvertedSelection{
			Game:         match.MatchedGame,
			Market:       match.MatchedMarket,
			Odds:         match.MatchedOdds,
			OriginalOdds: sel.Odds,
			Confidence:   match.Confidence,
			Status:       models.StatusConverted,
		})
	}

	if len(accepted) == 0 {
		return timedFailure(task, start, "no selections convertible",
			append(warnings, "None of the selections could be matched on the destination bookmaker")...)
	}

	// Step 4: create the destination slip with the accepted selections.
	raw, err = resource.Run(ctx, creationTask(dest, destBase, accepted))
	if err != nil {
		return timedFailure(task, start, err.Error(), categorizeError(err))
	}
	creation, err := agent.DecodeCreation(raw)
	if err != nil {
		return timedFailure(task, start, err.Error(),
			"Could not create the betslip on the destination bookmaker")
	}
	for _, p := range creation.Skipped {
		warnings = append(warnings, fmt.Sprintf("Destination bookmaker skipped selection: %s", p.Game))
	}

	return models.ConversionResult{
		TaskID:         task.TaskID,
		Success:        true,
		NewBetslipCode: creation.BetslipCode,
		Selections:     outcomes,
		Warnings:       warnings,
		ProcessingMS:   float64(time.Since(start).Milliseconds()),
		Partial:        len(accepted) < len(selections) || len(creation.Skipped) > 0,
	}
}

// categorizeError maps an agent/transport failure onto one actionable
// sentence for the caller.
func categorizeError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "not found"):
		return "Some games or markets were not available on the destination bookmaker"
	case strings.Contains(msg, "blocked") || strings.Contains(msg, "bot") || strings.Contains(msg, "captcha"):
		return "Access was temporarily blocked by anti-bot protection"
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "The operation timed out - the bookmaker may be slow or unavailable"
	case strings.Contains(msg, "memory"):
		return "System memory pressure detected - try again later"
	case strings.Contains(msg, "queue"):
		return "System is busy processing other requests - try again later"
	default:
		return fmt.Sprintf("Conversion failed: %v", err)
	}
}

func failureResult(task models.ConversionTask, errMsg string, warnings ...string) models.ConversionResult {
	if len(warnings) == 0 {
		warnings = []string{"Conversion failed: " + errMsg}
	}
	return models.ConversionResult{
		TaskID:   task.TaskID,
		Warnings: warnings,
		Error:    errMsg,
	}
}

func timedFailure(task models.ConversionTask, start time.Time, errMsg string, warnings ...string) models.ConversionResult {
	result := failureResult(task, errMsg, warnings...)
	result.ProcessingMS = float64(time.Since(start).Milliseconds())
	return result
}

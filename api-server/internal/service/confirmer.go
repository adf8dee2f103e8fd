package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akbar-farajov/booking-system/shared/models"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
)

// DefaultConfirmTimeout bounds a single confirmation workflow run
const DefaultConfirmTimeout = time.Minute

// TemporalConfirmer confirms bookings by running the trip confirmation
// workflow on the worker and waiting for its result.
type TemporalConfirmer struct {
	temporalClient client.Client
	timeout        time.Duration
}

// NewTemporalConfirmer creates a new TemporalConfirmer
func NewTemporalConfirmer(temporalClient client.Client, timeout time.Duration) *TemporalConfirmer {
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	return &TemporalConfirmer{temporalClient: temporalClient, timeout: timeout}
}

// WorkflowID returns the confirmation workflow id of a session
func WorkflowID(sessionID string) string {
	return models.ConfirmationWorkflowIDPrefix + sessionID
}

func (c *TemporalConfirmer) Confirm(ctx context.Context, req models.ConfirmationRequest) (*models.Confirmation, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:                       WorkflowID(req.SessionID),
		TaskQueue:                models.TaskQueue,
		WorkflowExecutionTimeout: c.timeout,
	}

	run, err := c.temporalClient.ExecuteWorkflow(ctx, workflowOptions, models.WorkflowTripConfirmation, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	var confirmation models.Confirmation
	if err := run.Get(ctx, &confirmation); err != nil {
		return nil, fmt.Errorf("confirmation workflow failed: %w", err)
	}
	return &confirmation, nil
}

// State queries the progress of the session's latest confirmation
func (c *TemporalConfirmer) State(ctx context.Context, sessionID string) (*models.ConfirmationState, error) {
	response, err := c.temporalClient.QueryWorkflow(ctx, WorkflowID(sessionID), "", models.QueryGetState)
	var notFound *serviceerror.NotFound
	if errors.As(err, &notFound) {
		return nil, fmt.Errorf("%w: no confirmation for session %s", ErrConfirmationUnavailable, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow: %w", err)
	}

	var state models.ConfirmationState
	if err := response.Get(&state); err != nil {
		return nil, fmt.Errorf("failed to decode workflow state: %w", err)
	}
	return &state, nil
}

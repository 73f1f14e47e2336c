package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beathaus/jobs-be/internal/api/domain"
	"github.com/beathaus/jobs-be/internal/api/dto"
	"github.com/beathaus/jobs-be/internal/api/storage"
	"github.com/beathaus/jobs-be/internal/api/storage/memory"
)

// Walks a job through its full life: posted, moderated onto the board, bid
// on by two providers, one bid accepted with budget adoption, escrow funded
// and finally released to the provider.
func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	logger := testLogger()
	pub := &capturePublisher{}
	events := NewEvents(logger, pub)
	jobs := NewJobService(logger, store, events)
	escrow := NewEscrowService(logger, store, store)

	job, err := jobs.Create(ctx, "owner", &dto.CreateJobRequest{
		Title:    "Boom bap instrumental",
		Category: "production",
		Budget:   100,
	})
	require.NoError(t, err)
	require.Equal(t, domain.JobStatusPending, job.Status)

	require.NoError(t, jobs.Open(ctx, job.JobID))

	lowBid, err := jobs.SubmitBid(ctx, job.JobID, "provider-1", &dto.SubmitBidRequest{Amount: 80})
	require.NoError(t, err)
	_, err = jobs.SubmitBid(ctx, job.JobID, "provider-2", &dto.SubmitBidRequest{Amount: 95})
	require.NoError(t, err)

	_, bids, err := jobs.Get(ctx, job.JobID)
	require.NoError(t, err)
	require.Len(t, bids, 2)

	assigned, err := jobs.AcceptBid(ctx, job.JobID, lowBid.BidID, "owner", true)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, assigned.Status)
	assert.Equal(t, "provider-1", assigned.AssignedProviderID.String)
	assert.Equal(t, 80.0, assigned.Budget)

	// Assigned jobs leave the public board.
	open, _, err := jobs.List(ctx, storage.JobFilter{})
	require.NoError(t, err)
	assert.Empty(t, open)

	funded, err := escrow.Fund(ctx, job.JobID, "owner", assigned.Budget, assigned.Currency)
	require.NoError(t, err)
	assert.True(t, funded.Funded)
	assert.False(t, funded.Released)

	released, err := escrow.Release(ctx, job.JobID, "owner")
	require.NoError(t, err)
	assert.True(t, released.Funded)
	assert.True(t, released.Released)
	assert.Equal(t, 80.0, released.Amount)

	assert.Equal(t, []string{EventJobCreated, EventBidSubmitted, EventBidSubmitted, EventBidAccepted}, pub.eventNames())
}

package main

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	"github.com/bh-assurance/agent-cli/internal/model"
)

func makeFakeCustomers(n int) []model.Customer {
	customers := make([]model.Customer, n)
	for i := range customers {
		customers[i] = model.Customer{
			ID:   fmt.Sprintf("P%03d", i+1),
			Kind: model.KindIndividual,
			Individual: &model.Individual{
				FullName: fmt.Sprintf("Client %d", i+1),
			},
		}
	}
	return customers
}

func TestProcessBatch_EmptyCustomers(t *testing.T) {
	err := processBatch(context.Background(), nil, 10, 5, func(_ context.Context, _ string) (model.AgentState, error) {
		t.Fatal("executeFunc should not be called for an empty batch")
		return model.AgentState{}, nil
	})
	require.NoError(t, err)
}

func TestProcessBatch_AllSucceed(t *testing.T) {
	customers := makeFakeCustomers(3)
	var count atomic.Int64

	err := processBatch(context.Background(), customers, 0, 2, func(_ context.Context, customerID string) (model.AgentState, error) {
		count.Add(1)
		return model.AgentState{
			CustomerID:  customerID,
			CurrentStep: model.StepCompleted,
		}, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, count.Load())
}

func TestProcessBatch_AppliesLimit(t *testing.T) {
	customers := makeFakeCustomers(10)
	var count atomic.Int64

	err := processBatch(context.Background(), customers, 4, 2, func(_ context.Context, _ string) (model.AgentState, error) {
		count.Add(1)
		return model.AgentState{CurrentStep: model.StepCompleted}, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 4, count.Load())
}

func TestProcessBatch_IndividualFailureDoesNotAbort(t *testing.T) {
	customers := makeFakeCustomers(4)
	var count atomic.Int64

	err := processBatch(context.Background(), customers, 0, 1, func(_ context.Context, customerID string) (model.AgentState, error) {
		count.Add(1)
		if customerID == "P002" {
			return model.AgentState{}, eris.New("customer not found")
		}
		return model.AgentState{CurrentStep: model.StepCompleted}, nil
	})
	require.NoError(t, err)
	// All four customers are attempted despite the one failure.
	require.EqualValues(t, 4, count.Load())
}

func TestProcessBatch_ZeroConcurrencyDefaultsToSerial(t *testing.T) {
	customers := makeFakeCustomers(2)
	var count atomic.Int64

	err := processBatch(context.Background(), customers, 0, 0, func(_ context.Context, _ string) (model.AgentState, error) {
		count.Add(1)
		return model.AgentState{}, nil
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, count.Load())
}

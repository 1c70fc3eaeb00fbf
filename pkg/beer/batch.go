package beer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/beer-client/internal/constants"
)

// OperationType names a batch operation.
type OperationType string

// Supported batch operations.
const (
	OperationCreate OperationType = "create"
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
	OperationGet    OperationType = "get"
)

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	ID       string
	Type     OperationType
	BeerID   uuid.UUID
	Beer     *Beer
	Callback func(result *BatchResult)
}

// BatchResult represents the result of a batch operation.
type BatchResult struct {
	ID       string
	Success  bool
	Beer     *Beer
	Error    error
	Duration time.Duration
}

// BatchExecutor executes batch operations against a BeersClient.
type BatchExecutor struct {
	beers       BeersClient
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(beers BeersClient, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = constants.DefaultConcurrencyLimit
	}

	return &BatchExecutor{
		beers:       beers,
		concurrency: concurrency,
		timeout:     constants.DefaultHTTPTimeout,
	}
}

// SetTimeout sets the timeout for each operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs a batch of operations. Results are returned in input order;
// individual failures are reported per result, not as the returned error.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) ([]BatchResult, error) {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results, nil
}

// executeOperation executes a single operation.
func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	result := &BatchResult{ID: operation.ID}

	var (
		beer *Beer
		err  error
	)

	switch operation.Type {
	case OperationCreate:
		beer, err = b.beers.Create(ctx, operation.Beer)
	case OperationUpdate:
		beer, err = b.beers.Update(ctx, operation.Beer)
	case OperationDelete:
		err = b.beers.Delete(ctx, operation.BeerID)
	case OperationGet:
		beer, err = b.beers.Get(ctx, operation.BeerID)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedOperation, operation.Type)
	}

	result.Beer = beer
	result.Error = err
	result.Success = err == nil

	return result
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{
		operations: make([]BatchOperation, 0),
	}
}

// AddCreate adds a beer creation operation.
func (b *BatchBuilder) AddCreate(id string, beer *Beer) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{ID: id, Type: OperationCreate, Beer: beer})

	return b
}

// AddUpdate adds a beer update operation.
func (b *BatchBuilder) AddUpdate(id string, beer *Beer) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{ID: id, Type: OperationUpdate, Beer: beer})

	return b
}

// AddDelete adds a beer deletion operation.
func (b *BatchBuilder) AddDelete(id string, beerID uuid.UUID) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{ID: id, Type: OperationDelete, BeerID: beerID})

	return b
}

// AddGet adds a beer lookup operation.
func (b *BatchBuilder) AddGet(id string, beerID uuid.UUID) *BatchBuilder {
	b.operations = append(b.operations, BatchOperation{ID: id, Type: OperationGet, BeerID: beerID})

	return b
}

// WithCallback attaches a callback to the most recently added operation.
func (b *BatchBuilder) WithCallback(callback func(result *BatchResult)) *BatchBuilder {
	if len(b.operations) > 0 {
		b.operations[len(b.operations)-1].Callback = callback
	}

	return b
}

// Build returns the built operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// Count returns the number of operations.
func (b *BatchBuilder) Count() int {
	return len(b.operations)
}

// filepath: internal/services/retention_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"aiopro/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTriggerRetention(t *testing.T) {
	store := new(MockStore)
	store.On("DeleteReportsOlderThan", mock.AnythingOfType("time.Time")).Return(int64(4), nil)

	auditor := new(MockAuditor)
	auditor.On("Log", mock.Anything, "retention.run", "master", "", mock.Anything).Once()

	cfg := &config.Config{ReportMaxAge: 30 * 24 * time.Hour}
	svc := NewRetentionService(store, cfg, auditor)

	report, err := svc.TriggerRetention(context.Background(), "master")
	assert.NoError(t, err)
	assert.Equal(t, int64(4), report.Deleted)
	assert.WithinDuration(t, time.Now().UTC().Add(-cfg.ReportMaxAge), report.Cutoff, time.Minute)

	store.AssertExpectations(t)
	auditor.AssertExpectations(t)
}

func TestTriggerRetentionDisabled(t *testing.T) {
	cfg := &config.Config{} // report_max_age of 0 disables retention
	svc := NewRetentionService(new(MockStore), cfg, new(MockAuditor))

	_, err := svc.TriggerRetention(context.Background(), "master")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRetentionWorkerSweepsOnStart(t *testing.T) {
	store := new(MockStore)
	swept := make(chan struct{}, 1)
	store.On("DeleteReportsOlderThan", mock.AnythingOfType("time.Time")).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).Return(int64(0), nil)

	cfg := &config.Config{
		ReportMaxAge:      24 * time.Hour,
		RetentionInterval: time.Hour,
	}
	svc := NewRetentionService(store, cfg, new(MockAuditor))

	svc.Start()
	defer svc.Stop()

	select {
	case <-swept:
	case <-time.After(2 * time.Second):
		t.Fatal("retention worker did not sweep after start")
	}
}

func TestRetentionWorkerDisabled(t *testing.T) {
	store := new(MockStore) // no expectations: any sweep would fail the test

	cfg := &config.Config{} // disabled
	svc := NewRetentionService(store, cfg, new(MockAuditor))

	svc.Start()
	time.Sleep(50 * time.Millisecond)
	store.AssertExpectations(t)
}

package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"migwatch/internal/simulator"
)

// OperationPath is where StartSimulator mounts the simulated operation.
const OperationPath = "/MigrateContent"

// SimulatorConfig configures StartSimulator.
type SimulatorConfig struct {
	AUs       []string
	FailEvery int
	Now       func() time.Time
}

// SimulatorInstance is a running simulated migration endpoint.
type SimulatorInstance struct {
	// URL is the operation URL, ready to hand to a status client.
	URL string
	Job *simulator.Job
}

// StartSimulator serves a simulated migration job for the duration of the test.
// The job only advances when the test calls Job.Step.
func StartSimulator(t testing.TB, cfg SimulatorConfig) *SimulatorInstance {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	job := simulator.NewJob(cfg.AUs, cfg.Now)
	server := httptest.NewServer(simulator.NewHandler(simulator.Config{
		Job:       job,
		FailEvery: cfg.FailEvery,
	}))
	t.Cleanup(server.Close)
	return &SimulatorInstance{URL: server.URL + OperationPath, Job: job}
}

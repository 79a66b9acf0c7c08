package htf

import (
	"htf.dev/pkg/htf/internal/adapter"
	"htf.dev/pkg/htf/internal/domain"
	"htf.dev/pkg/htf/pkg/conf"
	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/plugs"
	"htf.dev/pkg/htf/pkg/record"
)

type executor struct {
	*domain.TestExecutor
}

type state struct {
	*domain.TestState
}

// GetFinishedRecord implements State.
func (s state) GetFinishedRecord() *record.TestRecord {
	return s.Record()
}

// GetState implements Executor.
func (e executor) GetState() State {
	st := e.State()
	if st == nil {
		return nil
	}

	return state{st}
}

// NewExecutor is the default ExecutorFactory. It runs the phases in order
// with domain.TestExecutor and stamps the configured station ID.
func NewExecutor(data *TestData, lifecycle plugs.Lifecycle, teardown *phase.Info) Executor {
	plan := domain.Plan{
		CodeInfo:  data.CodeInfo,
		Metadata:  data.Metadata,
		Phases:    data.Phases,
		PlugTypes: data.PlugTypes(),
	}

	return executor{domain.NewTestExecutor(plan, lifecycle, teardown, domain.WithStationID(conf.StationID()))}
}

// NewStatusServer is the default StatusServerFactory.
func NewStatusServer(port int, exec Executor) StatusServer {
	return adapter.NewStatusServer(port, func() adapter.StatusSnapshot {
		st := exec.GetState()
		if st == nil {
			return adapter.StatusSnapshot{}
		}

		return adapter.StatusSnapshot{State: st.String(), Record: st.GetFinishedRecord()}
	})
}

func newPlugManager() plugs.Lifecycle {
	return plugs.NewManager()
}

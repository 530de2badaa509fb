package pulseboard

import (
	"github.com/pulseboard/pulseboard/model"
	"github.com/pulseboard/pulseboard/store"
	"github.com/sirupsen/logrus"
)

// ListPipelines returns the fixed pipeline catalog.
func (p *Pulseboard) ListPipelines() []*model.SyncPipeline {
	return p.sync.Pipelines()
}

// GetPipeline returns one pipeline definition, or store.ErrNotFound.
func (p *Pulseboard) GetPipeline(id string) (*model.SyncPipeline, error) {
	return p.sync.GetPipeline(id)
}

// ListClients returns the distinct clients with at least one instance.
func (p *Pulseboard) ListClients() []store.Client {
	return p.sync.Clients()
}

// ListInstances returns sync instances, optionally filtered by client id,
// pipeline id and status.
func (p *Pulseboard) ListInstances(clientID, pipelineID string, status model.InstanceStatus) []*model.SyncInstance {
	instances := p.sync.Instances()
	out := make([]*model.SyncInstance, 0, len(instances))
	for _, inst := range instances {
		if clientID != "" && inst.ClientID != clientID {
			continue
		}
		if pipelineID != "" && inst.PipelineID != pipelineID {
			continue
		}
		if status != "" && inst.Status != status {
			continue
		}
		out = append(out, inst)
	}
	return out
}

// GetInstance returns one sync instance, or store.ErrNotFound.
func (p *Pulseboard) GetInstance(id string) (*model.SyncInstance, error) {
	return p.sync.GetInstance(id)
}

// ListExecutions returns up to limit stored executions for an instance,
// newest first.
func (p *Pulseboard) ListExecutions(instanceID string, limit int) ([]*model.SyncExecution, error) {
	return p.sync.Executions(instanceID, limit)
}

// GenerateMockData destructively regenerates the sync dataset.
func (p *Pulseboard) GenerateMockData(clientCount int, introduceFailures bool) error {
	err := p.generator.GenerateMockData(clientCount, introduceFailures)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"clients":   clientCount,
		"instances": len(p.sync.Instances()),
	}).Info("mock sync dataset generated")
	return nil
}

// TriggerSync runs one immediate manual execution for the instance.
func (p *Pulseboard) TriggerSync(instanceID string) (*model.SyncExecution, error) {
	return p.generator.TriggerSync(instanceID)
}

package syncing

import (
	"sync"

	"github.com/vfg2006/ads-dashboard-api/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-dashboard-api/internal/domain"
)

// passState acumula os desfechos de uma passagem. É compartilhado pelos
// workers de conta, então todo acesso passa pelo mutex.
type passState struct {
	mu        sync.Mutex
	completed int
	failures  []domain.EntityError
}

func newPassState() *passState {
	return &passState{
		failures: make([]domain.EntityError, 0),
	}
}

func (p *passState) complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.completed++
}

func (p *passState) fail(kind domain.EntityKind, externalID string, errorKind domain.SyncErrorKind, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failures = append(p.failures, domain.EntityError{
		Kind:       kind,
		ExternalID: externalID,
		ErrorKind:  errorKind,
		Message:    err.Error(),
	})
}

func (p *passState) recordMappingErrors(mappingErrs []*meta.MappingError) {
	if len(mappingErrs) == 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, mappingErr := range mappingErrs {
		p.failures = append(p.failures, domain.EntityError{
			Kind:       mappingErr.Kind,
			ExternalID: mappingErr.ExternalID,
			ErrorKind:  domain.SyncErrorMapping,
			Message:    mappingErr.Error(),
		})
	}
}

func (p *passState) completedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.completed
}

func (p *passState) failureList() []domain.EntityError {
	p.mu.Lock()
	defer p.mu.Unlock()

	failures := make([]domain.EntityError, len(p.failures))
	copy(failures, p.failures)
	return failures
}

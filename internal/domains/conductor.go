package domains

import "context"

const ConductorName = "conductor"

type Conductor interface {
	Run(ctx context.Context) error
}

package evaluation

import (
	"context"
	"fmt"
	"io"
)

// ModelService is the part of the Ollama management API the gate needs
type ModelService interface {
	CheckHealth(ctx context.Context) (bool, error)
	ModelExists(ctx context.Context, name string) (bool, error)
	PrintModelList(ctx context.Context, w io.Writer) error
}

// Gate verifies the service is healthy and serves model before anything is evaluated.
// When the model is missing the installed models are printed to out.
func Gate(ctx context.Context, svc ModelService, model string, out io.Writer) error {
	healthy, err := svc.CheckHealth(ctx)
	if err != nil {
		return err
	}
	if !healthy {
		return fmt.Errorf("%w: Ollama not running", ErrConnectivity)
	}

	exists, err := svc.ModelExists(ctx, model)
	if err != nil {
		return err
	}
	if !exists {
		if err := svc.PrintModelList(ctx, out); err != nil {
			return err
		}
		return fmt.Errorf("%w: model %q is not available, pull it or pick another with -m", ErrConfiguration, model)
	}
	return nil
}

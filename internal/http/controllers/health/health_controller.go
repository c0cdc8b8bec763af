package health

import (
	"context"
	"net/http"
	"time"

	apperrors "github.com/dropDatabas3/edunexus/internal/http/errors"
)

// Pinger es cualquier dependencia que sabe responder un ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Controller expone liveness y readiness.
type Controller struct {
	// Deps se chequean en /readyz; el nombre sale en el detalle.
	Deps map[string]Pinger
}

func NewController(deps map[string]Pinger) *Controller {
	return &Controller{Deps: deps}
}

// HandleHealthz — GET /healthz: vivo si responde.
func (c *Controller) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	apperrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadyz — GET /readyz: listo si todas las dependencias responden.
func (c *Controller) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(c.Deps))
	ready := true
	for name, p := range c.Deps {
		if err := p.Ping(ctx); err != nil {
			checks[name] = "down: " + err.Error()
			ready = false
			continue
		}
		checks[name] = "ok"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	apperrors.WriteJSON(w, status, map[string]any{
		"ready":  ready,
		"checks": checks,
	})
}

// Package rates implementa el origen de cotización de la UR (unidad indexada)
// contra un servicio HTTP externo, con fallback configurado.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/obra-control/internal/application/ports"
	"github.com/tu-usuario/obra-control/pkg/config"
	"github.com/tu-usuario/obra-control/pkg/logger"
)

var _ ports.RateSource = (*Client)(nil)

// Client consulta la cotización vigente de la UR. Si el servicio externo no
// responde y hay fallback configurado, se usa el fallback con un warning; si
// no hay fallback el error sube y el save del rubro se rechaza. Guardar un
// presupuesto con cotización inventada es peor que no guardarlo.
type Client struct {
	url      string
	fallback *decimal.Decimal
	http     *http.Client
	log      *logger.Logger
}

// rateResponse cuerpo esperado del servicio externo.
type rateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// NewClient construye el cliente desde la configuración.
func NewClient(cfg config.URRateConfig, log *logger.Logger) (*Client, error) {
	c := &Client{
		url: cfg.URL,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		log: log,
	}
	if cfg.Fallback != "" {
		fb, err := decimal.NewFromString(cfg.Fallback)
		if err != nil {
			return nil, fmt.Errorf("UR_RATE_FALLBACK inválido: %w", err)
		}
		c.fallback = &fb
	}
	if c.url == "" && c.fallback == nil {
		return nil, fmt.Errorf("configurar UR_RATE_URL o UR_RATE_FALLBACK")
	}
	return c, nil
}

// CurrentURRate devuelve la cotización vigente. Se lee una sola vez por save
// de rubro; la cotización capturada nunca se revisa retroactivamente.
func (c *Client) CurrentURRate(ctx context.Context) (decimal.Decimal, error) {
	if c.url == "" {
		return *c.fallback, nil
	}
	rate, err := c.fetch(ctx)
	if err == nil {
		return rate, nil
	}
	if c.fallback != nil {
		c.log.Warn().Err(err).Str("fallback", c.fallback.String()).
			Msg("cotización UR externa no disponible, usando fallback")
		return *c.fallback, nil
	}
	return decimal.Zero, fmt.Errorf("cotización UR no disponible: %w", err)
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("crear request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("consultar cotización: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("servicio de cotización respondió %d", resp.StatusCode)
	}
	var body rateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, fmt.Errorf("decodificar cotización: %w", err)
	}
	if body.Rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("cotización no positiva: %s", body.Rate)
	}
	return body.Rate, nil
}

package dto

// HealthResponse es la respuesta de GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version,omitempty"`
}

// ReadyResponse es la respuesta de GET /readyz. Components mapea cada
// dependencia a "ok" o al error que devolvió su ping.
type ReadyResponse struct {
	Status     string            `json:"status"` // ready | degraded
	Components map[string]string `json:"components"`
}

package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Page    int `query:"page" validate:"min=1"`
	PerPage int `query:"per_page" validate:"min=1,max=100"`
}

// DefaultPage aplica valores por defecto si Page/PerPage son cero.
func (p *PageRequest) DefaultPage() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}
}

// Offset traduce la página al desplazamiento del repositorio.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PagedResponse envoltorio estándar de listados paginados.
type PagedResponse struct {
	Success     bool        `json:"success"`
	Message     string      `json:"message"`
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"current_page"`
	PerPage     int         `json:"per_page"`
	Total       int         `json:"total"`
	LastPage    int         `json:"last_page"`
}

// NewPagedResponse arma el envoltorio calculando last_page.
func NewPagedResponse(data interface{}, page PageRequest, total int) PagedResponse {
	last := 1
	if total > 0 {
		last = (total + page.PerPage - 1) / page.PerPage
	}
	return PagedResponse{
		Success:     true,
		Message:     "ok",
		Data:        data,
		CurrentPage: page.Page,
		PerPage:     page.PerPage,
		Total:       total,
		LastPage:    last,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

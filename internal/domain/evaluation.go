package domain

// Evaluation is the satisfaction record attached to a completed ticket.
// Nota stays nil until the requester submits; after JaAvaliado flips true
// the record is immutable from the portal's perspective.
type Evaluation struct {
	ID           string  `json:"id"`
	Nota         *int    `json:"nota"`
	Comentario   *string `json:"comentario"`
	RespondidoEm *string `json:"respondido_em"`
	CriadoEm     string  `json:"criado_em"`
	JaAvaliado   bool    `json:"ja_avaliado"`
}

// EvaluationTicket is a completed ticket paired with its evaluation state,
// as returned by the to-evaluate listing.
type EvaluationTicket struct {
	ID                string         `json:"id"`
	Status            TicketStatus   `json:"status"`
	DescricaoProblema string         `json:"descricao_problema"`
	Prioridade        TicketPriority `json:"prioridade"`
	DataCriacao       string         `json:"data_criacao"`
	DataConclusao     *string        `json:"data_conclusao,omitempty"`
	Setor             string         `json:"setor,omitempty"`
	AtribuidoA        *string        `json:"atribuido_a,omitempty"`
	Avaliacao         *Evaluation    `json:"avaliacao,omitempty"`
}

// Evaluated reports whether the ticket has already been rated.
func (e *EvaluationTicket) Evaluated() bool {
	return e.Avaliacao != nil && e.Avaliacao.JaAvaliado
}

// ValidRating reports whether nota is in the accepted 1..5 range.
func ValidRating(nota int) bool {
	return nota >= 1 && nota <= 5
}

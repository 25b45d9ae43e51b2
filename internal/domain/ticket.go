package domain

import "strings"

// TicketStatus enumerates the lifecycle states for tickets. The external API
// is the authority on transitions; the portal only decides which transitions
// to offer.
type TicketStatus string

const (
	StatusUnassigned    TicketStatus = "Sem atribuição"
	StatusPending       TicketStatus = "Pendente"
	StatusAwaitingReply TicketStatus = "Aguardando resposta"
	StatusDone          TicketStatus = "Concluído"
	StatusCancelled     TicketStatus = "Cancelado"
)

// AllStatuses lists every lifecycle state, in lifecycle order. Dashboard
// views use it to enumerate status filters and snapshot cache keys.
var AllStatuses = []TicketStatus{
	StatusUnassigned,
	StatusPending,
	StatusAwaitingReply,
	StatusDone,
	StatusCancelled,
}

// transitions mirrors the server-authoritative lifecycle table. It exists so
// the portal never offers a transition the API would reject outright.
var transitions = map[TicketStatus][]TicketStatus{
	StatusUnassigned:    {StatusPending, StatusCancelled},
	StatusPending:       {StatusAwaitingReply, StatusDone, StatusCancelled},
	StatusAwaitingReply: {StatusPending, StatusDone, StatusCancelled},
	StatusDone:          {},
	StatusCancelled:     {},
}

// Valid reports whether s is a known lifecycle state.
func (s TicketStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether s ends the lifecycle.
func (s TicketStatus) Terminal() bool {
	return s == StatusDone || s == StatusCancelled
}

// CanTransition reports whether the lifecycle table allows moving to next.
func (s TicketStatus) CanTransition(next TicketStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency labels as used by the API.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "Baixo"
	PriorityMedium TicketPriority = "Médio"
	PriorityHigh   TicketPriority = "Alto"
	PriorityUrgent TicketPriority = "Urgência"
)

// Response is one entry in a ticket's append-only reply thread.
type Response struct {
	Autor       string `json:"autor"`
	AutorEquipe string `json:"autor_equipe,omitempty"`
	Mensagem    string `json:"mensagem"`
	Data        string `json:"data"`
}

// Attachment is file metadata attached to a ticket. Binary content lives
// behind URL on the API side.
type Attachment struct {
	ID             string `json:"id"`
	ChamadoID      string `json:"chamado_id"`
	NomeArquivo    string `json:"nome_arquivo"`
	TipoArquivo    string `json:"tipo_arquivo"`
	TamanhoArquivo int64  `json:"tamanho_arquivo"`
	URL            string `json:"url"`
	UsuarioID      string `json:"usuario_id"`
	DataUpload     string `json:"data_upload"`
}

// Ticket is the portal's advisory copy of a support request. Timestamps stay
// as the API's string encoding; the portal never does arithmetic on them.
type Ticket struct {
	ID                  string         `json:"id"`
	NomeSolicitante     string         `json:"nome_solicitante"`
	EmailContato        string         `json:"email_contato"`
	TelefoneSetor       string         `json:"telefone_setor"`
	Setor               string         `json:"setor"`
	Prioridade          TicketPriority `json:"prioridade"`
	DescricaoProblema   string         `json:"descricao_problema"`
	Status              TicketStatus   `json:"status"`
	AtribuidoA          *string        `json:"atribuido_a"`
	DataCriacao         string         `json:"data_criacao"`
	DataAtribuicao      *string        `json:"data_atribuicao"`
	DataConclusao       *string        `json:"data_conclusao"`
	HistoricoRespostas  []Response     `json:"historico_respostas"`
	Anexos              []Attachment   `json:"anexos,omitempty"`
}

// RequestID returns the ticket identifier as used in API paths. Some list
// payloads prefix ids with '#' for display; the prefix must be stripped
// before building a URL.
func (t *Ticket) RequestID() string {
	return strings.TrimPrefix(t.ID, "#")
}

// Assignee returns the current assignee name, or "" when unassigned.
func (t *Ticket) Assignee() string {
	if t.AtribuidoA == nil {
		return ""
	}
	return *t.AtribuidoA
}

// HasStaffResponse reports whether any thread entry was authored by the
// staff team. Requesters may only reply after triage.
func (t *Ticket) HasStaffResponse() bool {
	for _, r := range t.HistoricoRespostas {
		if r.AutorEquipe == StaffTeam {
			return true
		}
	}
	return false
}

// OwnedBy reports whether the ticket belongs to the given requester,
// matched by contact email.
func (t *Ticket) OwnedBy(u *User) bool {
	return u != nil && t.EmailContato == u.Email
}

// MatchesSearch reports whether the ticket matches a free-text search over
// requester name, sector and problem description.
func (t *Ticket) MatchesSearch(term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	return strings.Contains(strings.ToLower(t.NomeSolicitante), term) ||
		strings.Contains(strings.ToLower(t.Setor), term) ||
		strings.Contains(strings.ToLower(t.DescricaoProblema), term)
}

package domain

// FeedbackItem is one row of the staff feedback report.
type FeedbackItem struct {
	ID              string  `json:"id"`
	UsuarioNome     string  `json:"usuario_nome"`
	ResponsavelNome string  `json:"responsavel_nome"`
	ChamadoID       string  `json:"chamado_id"`
	Avaliacao       *int    `json:"avaliacao"`
	Comentario      *string `json:"comentario,omitempty"`
	DataAvaliacao   string  `json:"data_avaliacao"`
	TempoResolucao  *string `json:"tempo_resolucao,omitempty"`
}

// SatisfactionStats aggregates evaluation outcomes for one scope.
type SatisfactionStats struct {
	TotalAvaliacoes      int     `json:"totalAvaliacoes"`
	AvaliacoesComNota    int     `json:"avaliacoesComNota"`
	AvaliacoesSemNota    int     `json:"avaliacoesSemNota"`
	TaxaSatisfacao       float64 `json:"taxaSatisfacao"`
	PercentualSatisfacao float64 `json:"percentualSatisfacao"`
}

// StaffMemberStats is SatisfactionStats scoped to one staff member.
type StaffMemberStats struct {
	Funcionario string `json:"funcionario"`
	SatisfactionStats
}

// TeamMetrics is the satisfaction report for the whole staff team.
type TeamMetrics struct {
	Metricas struct {
		Geral          SatisfactionStats  `json:"geral"`
		PorFuncionario []StaffMemberStats `json:"porFuncionario"`
	} `json:"metricas"`
	TotalFuncionarios int `json:"totalFuncionarios"`
}

// TicketMetrics is the dashboard counters payload from the metrics endpoint.
type TicketMetrics struct {
	Total              int `json:"total"`
	SemAtribuicao      int `json:"sem_atribuicao"`
	Pendentes          int `json:"pendentes"`
	AguardandoResposta int `json:"aguardando_resposta"`
	Concluidos         int `json:"concluidos"`
	Cancelados         int `json:"cancelados"`
}

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"github.com/labvotodev-ia/labvoto-back/warehouse"
)

// SearchCandidates handles GET /api/v1/politicos/busca/{nome}?limit=.
func (api LabVotoAPI) SearchCandidates(res http.ResponseWriter, req *http.Request) {
	limit, err := intQueryParam(req.URL.Query().Get("limit"), warehouse.DefaultSearchLimit)
	if err != nil {
		sendAppError(res, err)
		return
	}

	candidates, err := api.warehouse.SearchCandidates(req.Context(), warehouse.CandidateSearch{
		Term:  req.PathValue("nome"),
		Limit: limit,
	})
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, candidates)
}

// ElectedSeatsByParty handles
// GET /api/v1/analise-partido/{partido}/{abrangencia}[/{uf}]?municipio=.
func (api LabVotoAPI) ElectedSeatsByParty(res http.ResponseWriter, req *http.Request) {
	scope, err := warehouse.ParseScope(req.PathValue("abrangencia"))
	if err != nil {
		sendAppError(res, err)
		return
	}

	seats, err := api.warehouse.ElectedSeatsByParty(req.Context(), warehouse.ElectedSeatsByParty{
		Party:        req.PathValue("partido"),
		Scope:        scope,
		State:        req.PathValue("uf"),
		Municipality: req.URL.Query().Get("municipio"),
	})
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, seats)
}

// PartyVoteShare handles
// GET /api/v1/votos-partido?sigla_partido=&sigla_uf=&cargo=&ano=&turnos=.
func (api LabVotoAPI) PartyVoteShare(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	year, err := intQueryParam(query.Get("ano"), 0)
	if err != nil {
		sendAppError(res, err)
		return
	}

	rounds, err := intListParam(query.Get("turnos"))
	if err != nil {
		sendAppError(res, err)
		return
	}

	rows, err := api.warehouse.PartyVoteShare(req.Context(), warehouse.PartyVoteShare{
		Party:  query.Get("sigla_partido"),
		State:  query.Get("sigla_uf"),
		Office: query.Get("cargo"),
		Year:   year,
		Rounds: rounds,
	})
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, rows)
}

// CostPerVote handles GET /api/v1/custo-voto?anos=&cargos=&ufs=&sigla_partido=.
func (api LabVotoAPI) CostPerVote(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	years, err := intListParam(query.Get("anos"))
	if err != nil {
		sendAppError(res, err)
		return
	}

	rows, err := api.warehouse.CostPerVote(req.Context(), warehouse.CostPerVote{
		Years:   years,
		Offices: stringListParam(query.Get("cargos")),
		States:  stringListParam(query.Get("ufs")),
		Party:   query.Get("sigla_partido"),
	})
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, rows)
}

// PublicFundDistribution handles
// GET /api/v1/fundos-publicos?anos=&cargos=&ufs=&sigla_partido=.
func (api LabVotoAPI) PublicFundDistribution(res http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()

	years, err := intListParam(query.Get("anos"))
	if err != nil {
		sendAppError(res, err)
		return
	}

	rows, err := api.warehouse.PublicFundDistribution(
		req.Context(),
		warehouse.PublicFundDistribution{
			Years:   years,
			Offices: stringListParam(query.Get("cargos")),
			States:  stringListParam(query.Get("ufs")),
			Party:   query.Get("sigla_partido"),
		},
	)
	if err != nil {
		sendAppError(res, err)
		return
	}

	sendJSON(res, rows)
}

func stringListParam(value string) []string {
	values := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			values = append(values, item)
		}
	}
	return values
}

func intListParam(value string) ([]int, error) {
	values := []int{}
	for _, item := range stringListParam(value) {
		parsed, err := strconv.Atoi(item)
		if err != nil {
			return nil, apperrors.Validationf("parâmetro numérico inválido: '%s'", item)
		}
		values = append(values, parsed)
	}
	return values, nil
}

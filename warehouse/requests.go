package warehouse

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/labvotodev-ia/labvoto-back/apperrors"
	"hermannm.dev/enumnames"
)

// Scope is the geographic level of the party seat analysis.
type Scope uint8

const (
	ScopeNacional Scope = iota + 1
	ScopeEstadual
	ScopeMunicipal
)

var scopeNames = enumnames.NewMap(map[Scope]string{
	ScopeNacional:  "NACIONAL",
	ScopeEstadual:  "ESTADUAL",
	ScopeMunicipal: "MUNICIPAL",
})

func (scope Scope) IsValid() bool {
	return scopeNames.ContainsEnumValue(scope)
}

func (scope Scope) String() string {
	return scopeNames.GetNameOrFallback(scope, "INVALID_SCOPE")
}

func (scope Scope) MarshalJSON() ([]byte, error) {
	return scopeNames.MarshalToNameJSON(scope)
}

func (scope *Scope) UnmarshalJSON(bytes []byte) error {
	return scopeNames.UnmarshalFromNameJSON(bytes, scope)
}

func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "nacional":
		return ScopeNacional, nil
	case "estadual":
		return ScopeEstadual, nil
	case "municipal":
		return ScopeMunicipal, nil
	default:
		return 0, apperrors.Validationf(
			"abrangência '%s' inválida (esperado nacional, estadual ou municipal)", value,
		)
	}
}

const (
	DefaultSearchLimit = 100
	MinSearchLimit     = 1
	MaxSearchLimit     = 500
)

// CandidateSearch is the request for the candidate name search report.
type CandidateSearch struct {
	Term  string
	Limit int
}

// Validate trims the search term and clamps the limit to its allowed range.
// Terms shorter than 2 characters are rejected before any query is built.
func (search *CandidateSearch) Validate() error {
	search.Term = strings.TrimSpace(search.Term)
	if utf8.RuneCountInString(search.Term) < 2 {
		return apperrors.Validation("termo de busca deve ter no mínimo 2 caracteres")
	}

	if search.Limit < MinSearchLimit {
		search.Limit = MinSearchLimit
	} else if search.Limit > MaxSearchLimit {
		search.Limit = MaxSearchLimit
	}

	return nil
}

// ElectedSeatsByParty is the request for the elected-seats-per-office
// report. State is required for Estadual and Municipal scope, Municipality
// additionally for Municipal.
type ElectedSeatsByParty struct {
	Party        string
	Scope        Scope
	State        string
	Municipality string
}

func (request *ElectedSeatsByParty) Validate() error {
	request.Party = strings.ToUpper(strings.TrimSpace(request.Party))
	if request.Party == "" {
		return apperrors.Validation("sigla_partido é obrigatório")
	}

	if !request.Scope.IsValid() {
		return apperrors.Validation("abrangência inválida")
	}

	request.State = strings.ToUpper(strings.TrimSpace(request.State))
	request.Municipality = strings.TrimSpace(request.Municipality)

	switch request.Scope {
	case ScopeEstadual:
		if request.State == "" {
			return apperrors.Validation("sigla_uf é obrigatório para abrangência estadual")
		}
	case ScopeMunicipal:
		if request.State == "" {
			return apperrors.Validation("sigla_uf é obrigatório para abrangência municipal")
		}
		if request.Municipality == "" {
			return apperrors.Validation("municipio é obrigatório para abrangência municipal")
		}
	}

	return nil
}

const (
	MinElectionYear     = 2000
	MaxElectionYear     = 2100
	DefaultElectionYear = 2024
)

// PartyVoteShare is the request for the vote share report. Rounds defaults
// to both election rounds when empty.
type PartyVoteShare struct {
	Party  string
	State  string
	Office string
	Year   int
	Rounds []int
}

func (request *PartyVoteShare) Validate() error {
	request.Party = strings.ToUpper(strings.TrimSpace(request.Party))
	if request.Party == "" {
		return apperrors.Validation("sigla_partido é obrigatório")
	}

	request.State = strings.ToUpper(strings.TrimSpace(request.State))
	if request.State == "" {
		return apperrors.Validation("sigla_uf é obrigatório")
	}

	request.Office = strings.TrimSpace(request.Office)
	if request.Office == "" {
		return apperrors.Validation("cargo é obrigatório")
	}

	if request.Year == 0 {
		request.Year = DefaultElectionYear
	}
	if request.Year < MinElectionYear || request.Year > MaxElectionYear {
		return apperrors.Validationf(
			"ano %d fora do intervalo permitido (%d a %d)",
			request.Year, MinElectionYear, MaxElectionYear,
		)
	}

	if len(request.Rounds) == 0 {
		request.Rounds = []int{1, 2}
	}
	for _, round := range request.Rounds {
		if round != 1 && round != 2 {
			return apperrors.Validationf("turno %d inválido (esperado 1 ou 2)", round)
		}
	}
	slices.Sort(request.Rounds)
	request.Rounds = slices.Compact(request.Rounds)

	return nil
}

// CostPerVote is the request for the campaign cost-per-vote report. Every
// field is required.
type CostPerVote struct {
	Years   []int
	Offices []string
	States  []string
	Party   string
}

func (request *CostPerVote) Validate() error {
	return validateFinanceParams(
		request.Years, request.Offices, &request.States, &request.Party,
	)
}

// PublicFundDistribution is the request for the public-fund distribution
// report, with the same parameter set as CostPerVote.
type PublicFundDistribution struct {
	Years   []int
	Offices []string
	States  []string
	Party   string
}

func (request *PublicFundDistribution) Validate() error {
	return validateFinanceParams(
		request.Years, request.Offices, &request.States, &request.Party,
	)
}

func validateFinanceParams(
	years []int,
	offices []string,
	states *[]string,
	party *string,
) error {
	if len(years) == 0 {
		return apperrors.Validation("anos é obrigatório")
	}
	if len(offices) == 0 {
		return apperrors.Validation("cargos é obrigatório")
	}
	if len(*states) == 0 {
		return apperrors.Validation("ufs é obrigatório")
	}

	*party = strings.ToUpper(strings.TrimSpace(*party))
	if *party == "" {
		return apperrors.Validation("sigla_partido é obrigatório")
	}

	upperStates := make([]string, 0, len(*states))
	for _, state := range *states {
		state = strings.ToUpper(strings.TrimSpace(state))
		if state == "" {
			return apperrors.Validation("ufs não pode conter valores vazios")
		}
		upperStates = append(upperStates, state)
	}
	*states = upperStates

	for _, office := range offices {
		if strings.TrimSpace(office) == "" {
			return apperrors.Validation("cargos não pode conter valores vazios")
		}
	}

	return nil
}

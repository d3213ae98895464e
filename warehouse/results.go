package warehouse

import (
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"hermannm.dev/wrap"
)

// PartySeats is one row of the elected-seats report: how many candidates of
// the requested party were elected for the given office.
type PartySeats struct {
	Cargo   string `ch:"cargo"   json:"cargo"`
	Eleitos int64  `ch:"eleitos" json:"total_eleitos"`
}

// VoteShareRow is one row of the vote share report. VotosValidos and the two
// ratio fields are null when the locality has no matching entry in the valid
// vote totals, or when the total is zero.
type VoteShareRow struct {
	Ano              int64    `ch:"ano"                json:"ano"`
	Turno            int64    `ch:"turno"              json:"turno"`
	SiglaUF          string   `ch:"sigla_uf"           json:"sigla_uf"`
	CodigoMunicipio  int64    `ch:"codigo_municipio"   json:"codigo_municipio"`
	Cargo            string   `ch:"cargo"              json:"cargo"`
	Votos            int64    `ch:"votos"              json:"votos"`
	VotosValidos     *int64   `ch:"votos_validos"      json:"votos_validos"`
	PercVotos        *float64 `ch:"perc_votos"         json:"perc_votos"`
	PercVotosValidos *float64 `ch:"perc_votos_validos" json:"perc_votos_validos"`
}

// CostPerVoteRow is one row of the cost-per-vote report. TotalDespesas and
// CustoPorVoto are null when the candidate has no recorded expenses, or when
// the vote total is zero.
type CostPerVoteRow struct {
	Ano           int64    `ch:"ano"            json:"ano"`
	SiglaUF       string   `ch:"sigla_uf"       json:"sigla_uf"`
	Candidato     string   `ch:"candidato"      json:"candidato"`
	Numero        int64    `ch:"numero"         json:"numero"`
	TotalVotos    int64    `ch:"total_votos"    json:"total_votos"`
	TotalDespesas *float64 `ch:"total_despesas" json:"total_despesas"`
	CustoPorVoto  *float64 `ch:"custo_por_voto" json:"custo_por_voto"`
}

// PublicFundRow is one row of the public-fund distribution report.
type PublicFundRow struct {
	Ano           int64    `ch:"ano"            json:"ano"`
	SiglaUF       string   `ch:"sigla_uf"       json:"sigla_uf"`
	Candidato     string   `ch:"candidato"      json:"candidato"`
	Numero        int64    `ch:"numero"         json:"numero"`
	TotalVotos    int64    `ch:"total_votos"    json:"total_votos"`
	TotalFundos   *float64 `ch:"total_fundos"   json:"total_fundos"`
	TotalDespesas *float64 `ch:"total_despesas" json:"total_despesas"`
	CustoPorVoto  *float64 `ch:"custo_por_voto" json:"custo_por_voto"`
}

// Candidate is a pass-through row from the candidate search: the table's
// full column set, with driver values normalized to plain scalars.
type Candidate map[string]any

// scanCandidateRows reads every row of a heterogeneous result set, scanning
// each column through the driver's declared scan type and normalizing the
// scanned values.
func scanCandidateRows(rows driver.Rows) ([]Candidate, error) {
	columnNames := rows.Columns()
	columnTypes := rows.ColumnTypes()

	candidates := []Candidate{}
	for rows.Next() {
		scanTargets := make([]any, 0, len(columnTypes))
		for _, columnType := range columnTypes {
			scanTargets = append(scanTargets, reflect.New(columnType.ScanType()).Interface())
		}

		if err := rows.Scan(scanTargets...); err != nil {
			return nil, wrap.Error(err, "failed to scan result row")
		}

		candidate := make(Candidate, len(columnNames))
		for i, name := range columnNames {
			candidate[name] = normalizeValue(reflect.ValueOf(scanTargets[i]).Elem().Interface())
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap.Error(err, "failed to read result rows")
	}

	return candidates, nil
}

// normalizeValue converts the driver's native column values to the plain
// scalars of the report output contract: integers to int64, floats to
// float64, nullable pointers to their value or nil. Driver-specific wrapper
// types must not leak past this point.
func normalizeValue(value any) any {
	if value == nil {
		return nil
	}

	reflected := reflect.ValueOf(value)
	if reflected.Kind() == reflect.Pointer {
		if reflected.IsNil() {
			return nil
		}
		reflected = reflected.Elem()
		value = reflected.Interface()
	}

	switch typedValue := value.(type) {
	case time.Time:
		return typedValue
	case string:
		return typedValue
	}

	switch reflected.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflected.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(reflected.Uint())
	case reflect.Float32, reflect.Float64:
		return reflected.Float()
	case reflect.Bool:
		return reflected.Bool()
	case reflect.String:
		return reflected.String()
	default:
		return value
	}
}

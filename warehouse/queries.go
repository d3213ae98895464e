package warehouse

import (
	"github.com/ClickHouse/clickhouse-go/v2"
	"hermannm.dev/wrap"
)

// Election years covered by the party seat analysis.
var seatAnalysisYears = []int{2012, 2016, 2020, 2024}

// Text prefix marking an elected outcome in the situacao column (covers
// "ELEITO", "ELEITO POR QP", "ELEITO POR MÉDIA").
const electedOutcomePrefix = "ELEITO"

func buildCandidateSearchQuery(
	sources Sources,
	search CandidateSearch,
) (query string, params []any, err error) {
	if err := ValidateIdentifiers(
		sources.CandidateDatabase, sources.Tables.Candidatos,
	); err != nil {
		return "", nil, wrap.Error(err, "invalid candidate source identifier")
	}

	var builder QueryBuilder
	builder.WriteString("SELECT * FROM ")
	builder.WriteTable(sources.CandidateDatabase, sources.Tables.Candidatos)
	builder.WriteString(" WHERE positionCaseInsensitive(nome, {termo:String}) > 0")
	builder.WriteString(" OR positionCaseInsensitive(nome_urna, {termo:String}) > 0")
	builder.WriteString(" LIMIT {limite:UInt32}")

	params = []any{
		clickhouse.Named("termo", search.Term),
		clickhouse.Named("limite", search.Limit),
	}

	return builder.String(), params, nil
}

func buildElectedSeatsQuery(
	sources Sources,
	request ElectedSeatsByParty,
) (query string, params []any, err error) {
	if err := ValidateIdentifiers(
		sources.CandidateDatabase, sources.Tables.Resultados, sources.Tables.Municipios,
	); err != nil {
		return "", nil, wrap.Error(err, "invalid seat analysis source identifier")
	}

	var builder QueryBuilder
	builder.WriteString("SELECT r.cargo AS cargo, toInt64(count()) AS eleitos FROM ")
	builder.WriteTable(sources.CandidateDatabase, sources.Tables.Resultados)
	builder.WriteString(" AS r")

	// Nacional requires the locality to resolve in the directory; Municipal
	// filters on the resolved locality name.
	if request.Scope == ScopeNacional || request.Scope == ScopeMunicipal {
		builder.WriteString(" LEFT JOIN ")
		builder.WriteTable(sources.CandidateDatabase, sources.Tables.Municipios)
		builder.WriteString(" AS m ON r.codigo_municipio = m.codigo")
	}

	builder.WriteString(" WHERE upper(r.sigla_partido) = {partido:String}")
	builder.WriteString(" AND startsWith(upper(r.situacao), '" + electedOutcomePrefix + "')")

	builder.WriteString(" AND r.ano IN (")
	for i, year := range seatAnalysisYears {
		if i > 0 {
			builder.WriteString(", ")
		}
		builder.WriteInt(year)
	}
	builder.WriteString(")")

	params = []any{clickhouse.Named("partido", request.Party)}

	switch request.Scope {
	case ScopeNacional:
		builder.WriteString(" AND r.sigla_uf IS NOT NULL AND m.nome IS NOT NULL")
	case ScopeEstadual:
		builder.WriteString(" AND r.sigla_uf = {uf:String}")
		params = append(params, clickhouse.Named("uf", request.State))
	case ScopeMunicipal:
		builder.WriteString(" AND r.sigla_uf = {uf:String}")
		builder.WriteString(" AND lowerUTF8(m.nome) = lowerUTF8({municipio:String})")
		params = append(
			params,
			clickhouse.Named("uf", request.State),
			clickhouse.Named("municipio", request.Municipality),
		)
	}

	builder.WriteString(" GROUP BY cargo ORDER BY eleitos DESC")

	return builder.String(), params, nil
}

func buildVoteShareQuery(
	sources Sources,
	request PartyVoteShare,
) (query string, params []any, err error) {
	if err := ValidateIdentifiers(
		sources.ElectoralDatabase, sources.Tables.Resultados, sources.Tables.VotacaoDetalhe,
	); err != nil {
		return "", nil, wrap.Error(err, "invalid vote share source identifier")
	}

	rounds := make([]int32, 0, len(request.Rounds))
	for _, round := range request.Rounds {
		rounds = append(rounds, int32(round))
	}

	var builder QueryBuilder

	// Party votes per locality, for elected outcomes only.
	builder.WriteString("WITH votos_partido AS (")
	builder.WriteString(
		"SELECT toInt64(ano) AS ano, toInt64(turno) AS turno, sigla_uf," +
			" toInt64(codigo_municipio) AS codigo_municipio, cargo," +
			" toInt64(sum(votos)) AS votos FROM ",
	)
	builder.WriteTable(sources.ElectoralDatabase, sources.Tables.Resultados)
	builder.WriteString(
		" WHERE upper(sigla_partido) = {partido:String}" +
			" AND sigla_uf = {uf:String}" +
			" AND cargo = {cargo:String}" +
			" AND ano = {ano:Int32}" +
			" AND turno IN {turnos:Array(Int32)}" +
			" AND startsWith(upper(situacao), '" + electedOutcomePrefix + "')" +
			" GROUP BY ano, turno, sigla_uf, codigo_municipio, cargo" +
			"), ",
	)

	// Total valid votes per locality, from the per-section detail table.
	// toNullable keeps unmatched join rows as NULL instead of zero.
	builder.WriteString("votos_validos AS (")
	builder.WriteString(
		"SELECT toInt64(ano) AS ano, toInt64(turno) AS turno, sigla_uf," +
			" toInt64(codigo_municipio) AS codigo_municipio," +
			" toNullable(toInt64(sum(votos_validos))) AS votos_validos FROM ",
	)
	builder.WriteTable(sources.ElectoralDatabase, sources.Tables.VotacaoDetalhe)
	builder.WriteString(
		" WHERE sigla_uf = {uf:String}" +
			" AND ano = {ano:Int32}" +
			" AND turno IN {turnos:Array(Int32)}" +
			" GROUP BY ano, turno, sigla_uf, codigo_municipio" +
			") ",
	)

	builder.WriteString(
		"SELECT p.ano AS ano, p.turno AS turno, p.sigla_uf AS sigla_uf," +
			" p.codigo_municipio AS codigo_municipio, p.cargo AS cargo," +
			" p.votos AS votos, v.votos_validos AS votos_validos," +
			" toFloat64(p.votos) / nullIf(toFloat64(v.votos_validos), 0) AS perc_votos," +
			" (toFloat64(p.votos) / nullIf(toFloat64(v.votos_validos), 0)) * 100" +
			" AS perc_votos_validos" +
			" FROM votos_partido AS p" +
			" LEFT JOIN votos_validos AS v" +
			" ON p.ano = v.ano AND p.turno = v.turno" +
			" AND p.sigla_uf = v.sigla_uf AND p.codigo_municipio = v.codigo_municipio" +
			" ORDER BY ano, sigla_uf, codigo_municipio, cargo, perc_votos_validos DESC",
	)

	params = []any{
		clickhouse.Named("partido", request.Party),
		clickhouse.Named("uf", request.State),
		clickhouse.Named("cargo", request.Office),
		clickhouse.Named("ano", int32(request.Year)),
		clickhouse.Named("turnos", rounds),
	}

	return builder.String(), params, nil
}

func buildCostPerVoteQuery(
	sources Sources,
	request CostPerVote,
) (query string, params []any, err error) {
	return buildFinanceQuery(sources, financeQueryOptions{
		years:       request.Years,
		offices:     request.Offices,
		states:      request.States,
		party:       request.Party,
		electedOnly: true,
		publicFunds: false,
	})
}

func buildPublicFundQuery(
	sources Sources,
	request PublicFundDistribution,
) (query string, params []any, err error) {
	return buildFinanceQuery(sources, financeQueryOptions{
		years:       request.Years,
		offices:     request.Offices,
		states:      request.States,
		party:       request.Party,
		electedOnly: false,
		publicFunds: true,
	})
}

type financeQueryOptions struct {
	years       []int
	offices     []string
	states      []string
	party       string
	electedOnly bool
	publicFunds bool
}

// Builds the shared query shape of the campaign-finance reports: a
// type-preserving union of the general and municipal results tables, vote
// totals per candidate sequence key, joined to candidate identity and
// expense totals, with a null-safe cost-per-vote ratio. The public-fund
// variant drops the elected filter and joins fuzzy-matched public revenue.
func buildFinanceQuery(
	sources Sources,
	options financeQueryOptions,
) (query string, params []any, err error) {
	if err := ValidateIdentifiers(
		sources.ElectoralDatabase,
		sources.Tables.Resultados,
		sources.Tables.ResultadosMunicipais,
		sources.Tables.Candidatos,
		sources.Tables.Despesas,
		sources.Tables.Receitas,
	); err != nil {
		return "", nil, wrap.Error(err, "invalid campaign finance source identifier")
	}

	years := make([]int32, 0, len(options.years))
	for _, year := range options.years {
		years = append(years, int32(year))
	}

	const resultColumns = "toInt64(ano) AS ano, sigla_uf, sequencial_candidato," +
		" cargo, sigla_partido, situacao, votos"

	var builder QueryBuilder

	builder.WriteString("WITH votos_unificados AS (")
	builder.WriteString("SELECT " + resultColumns + " FROM ")
	builder.WriteTable(sources.ElectoralDatabase, sources.Tables.Resultados)
	builder.WriteString(" UNION ALL SELECT " + resultColumns + " FROM ")
	builder.WriteTable(sources.ElectoralDatabase, sources.Tables.ResultadosMunicipais)
	builder.WriteString("), ")

	builder.WriteString("total_votos_candidato AS (")
	builder.WriteString(
		"SELECT ano, sigla_uf, sequencial_candidato, toInt64(sum(votos)) AS total_votos" +
			" FROM votos_unificados" +
			" WHERE ano IN {anos:Array(Int32)}" +
			" AND cargo IN {cargos:Array(String)}" +
			" AND sigla_uf IN {ufs:Array(String)}" +
			" AND upper(sigla_partido) = {partido:String}",
	)
	if options.electedOnly {
		builder.WriteString(" AND startsWith(upper(situacao), '" + electedOutcomePrefix + "')")
	}
	builder.WriteString(" GROUP BY ano, sigla_uf, sequencial_candidato), ")

	builder.WriteString("total_despesas_candidato AS (")
	builder.WriteString(
		"SELECT toInt64(ano) AS ano, sequencial_candidato," +
			" toNullable(toFloat64(sum(valor_despesa))) AS total_despesas FROM ",
	)
	builder.WriteTable(sources.ElectoralDatabase, sources.Tables.Despesas)
	builder.WriteString(
		" WHERE ano IN {anos:Array(Int32)} GROUP BY ano, sequencial_candidato)",
	)

	if options.publicFunds {
		// Public-financing revenue lines are identified by fuzzy matches on
		// the funding source description (party fund, special campaign
		// fund, electoral fund).
		builder.WriteString(", total_fundos_candidato AS (")
		builder.WriteString(
			"SELECT toInt64(ano) AS ano, sequencial_candidato," +
				" toNullable(toFloat64(sum(valor_receita))) AS total_fundos FROM ",
		)
		builder.WriteTable(sources.ElectoralDatabase, sources.Tables.Receitas)
		builder.WriteString(
			" WHERE ano IN {anos:Array(Int32)}" +
				" AND (positionCaseInsensitive(fonte_receita, 'fundo partid') > 0" +
				" OR positionCaseInsensitive(fonte_receita, 'fundo especial') > 0" +
				" OR positionCaseInsensitive(fonte_receita, 'fundo eleitoral') > 0)" +
				" GROUP BY ano, sequencial_candidato)",
		)
	}

	builder.WriteString(
		" SELECT v.ano AS ano, v.sigla_uf AS sigla_uf," +
			" c.nome AS candidato, toInt64(c.numero) AS numero," +
			" v.total_votos AS total_votos,",
	)
	if options.publicFunds {
		builder.WriteString(" f.total_fundos AS total_fundos,")
	}
	builder.WriteString(
		" d.total_despesas AS total_despesas," +
			" d.total_despesas / nullIf(toFloat64(v.total_votos), 0) AS custo_por_voto" +
			" FROM total_votos_candidato AS v" +
			" INNER JOIN ",
	)
	builder.WriteTable(sources.ElectoralDatabase, sources.Tables.Candidatos)
	builder.WriteString(
		" AS c ON toInt64(c.ano) = v.ano" +
			" AND c.sequencial_candidato = v.sequencial_candidato" +
			" LEFT JOIN total_despesas_candidato AS d" +
			" ON d.ano = v.ano AND d.sequencial_candidato = v.sequencial_candidato",
	)
	if options.publicFunds {
		builder.WriteString(
			" LEFT JOIN total_fundos_candidato AS f" +
				" ON f.ano = v.ano AND f.sequencial_candidato = v.sequencial_candidato",
		)
	}
	builder.WriteString(" ORDER BY ano, sigla_uf, total_votos DESC")

	params = []any{
		clickhouse.Named("anos", years),
		clickhouse.Named("cargos", options.offices),
		clickhouse.Named("ufs", options.states),
		clickhouse.Named("partido", options.party),
	}

	return builder.String(), params, nil
}
